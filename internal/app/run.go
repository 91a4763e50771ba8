package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vk/datagridgo/internal/config"
	"github.com/vk/datagridgo/internal/ctxlog"
	"github.com/vk/datagridgo/internal/generr"
	"github.com/vk/datagridgo/internal/sink"
)

// Run loads the design, generates the rows and writes them to the
// configured sink. Nothing is written when generation fails.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	model, conv, err := a.load(ctx)
	if err != nil {
		return err
	}
	out := a.sinkOptions(model)
	if err := checkFormat(out); err != nil {
		return err
	}
	rows := a.rows(model)
	seed := a.seed(ctx, model)

	g, err := a.buildGenerator(ctx, model, conv, seed)
	if err != nil {
		return err
	}
	data, err := g.Generate(ctx, rows)
	if err != nil {
		return err
	}

	w, err := sink.New(ctx, out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = errors.CombineErrors(err, errors.Wrap(cerr, "closing output"))
		}
	}()

	if err := w.Write(ctx, columns(g), data); err != nil {
		return errors.Wrap(err, "writing rows")
	}

	a.logger.Info("🏁 Rows written.", "rows", len(data), "seed", seed)
	return nil
}

// Validate loads the design and checks it without generating anything. It
// prints the property order on success.
func (a *App) Validate(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	model, conv, err := a.load(ctx)
	if err != nil {
		return err
	}
	if err := checkFormat(a.sinkOptions(model)); err != nil {
		return err
	}

	g, err := a.buildGenerator(ctx, model, conv, 0)
	if err != nil {
		return err
	}
	order, err := g.Order()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.outW, "%s: %d properties, generated in order %s\n",
		a.config.DesignPath, len(order), strings.Join(order, ", "))
	return nil
}

// Providers prints every registered provider with its description.
func (a *App) Providers() error {
	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDESCRIPTION")
	for _, name := range a.registry.Names() {
		reg, _ := a.registry.Lookup(name)
		fmt.Fprintf(tw, "%s\t%s\n", name, reg.Description)
	}
	return tw.Flush()
}

func (a *App) load(ctx context.Context) (*config.Model, config.Converter, error) {
	if a.config.DesignPath == "" {
		return nil, nil, generr.Configurationf("a design path is required")
	}
	model, conv, err := a.loader.Load(ctx, a.config.DesignPath)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debug("Design loaded.", "properties", len(model.Properties))
	return model, conv, nil
}

func (a *App) rows(model *config.Model) int {
	switch {
	case a.config.Rows != nil:
		return *a.config.Rows
	case model.Rows != nil:
		return *model.Rows
	}
	return DefaultRows
}

// seed picks the generator seed. Without one configured, a time-based seed
// is logged so the run can be repeated.
func (a *App) seed(ctx context.Context, model *config.Model) uint64 {
	switch {
	case a.config.Seed != nil:
		return *a.config.Seed
	case model.Seed != nil:
		return *model.Seed
	}
	seed := uint64(time.Now().UnixNano())
	ctxlog.FromContext(ctx).Info("No seed configured, using a random one.", "seed", seed)
	return seed
}

func checkFormat(opts sink.Options) error {
	if opts.Format != "" && !slices.Contains(sink.Formats(), opts.Format) {
		return generr.Configurationf("unknown output format %q (supported: %v)", opts.Format, sink.Formats())
	}
	return nil
}

// sinkOptions merges the design's output block with caller overrides.
func (a *App) sinkOptions(model *config.Model) sink.Options {
	opts := sink.Options{Stdout: a.outW, S3: a.s3, HTTP: a.http}
	if model.Output != nil {
		opts.Format = model.Output.Format
		opts.Target = model.Output.Path
		opts.Table = model.Output.Table
	}
	if a.config.Format != "" {
		opts.Format = a.config.Format
	}
	if a.config.Output != "" {
		opts.Target = a.config.Output
	}
	if a.config.Table != "" {
		opts.Table = a.config.Table
	}
	return opts
}
