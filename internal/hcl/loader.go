package hcl

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/datagridgo/internal/config"
	"github.com/vk/datagridgo/internal/ctxlog"
	"github.com/vk/datagridgo/internal/fsutil"
	"github.com/vk/datagridgo/internal/generr"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct {
	parser *hclparse.Parser
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load reads every .hcl file found at the given paths and merges them into
// one design. Directories are searched recursively.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading design.", "paths", paths)

	var files []string
	for _, p := range paths {
		found, err := fsutil.ResolvePath(ctx, p, ".hcl")
		if err != nil {
			return nil, nil, generr.Configuration(err, "resolving design path")
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, nil, generr.Configurationf("no .hcl design files found in %v", paths)
	}
	logger.Info("Found design files to process.", "count", len(files))

	model := &config.Model{}
	for _, file := range files {
		logger.Debug("Parsing design file.", "path", file)
		f, diags := l.parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, generr.Configuration(diags, "failed to parse HCL file %s", file)
		}
		if err := l.merge(ctx, model, f); err != nil {
			return nil, nil, generr.Configuration(err, "failed to load design file %s", file)
		}
	}

	logger.Debug("Finished loading design.", "properties", len(model.Properties))
	return model, NewConverter(), nil
}

// LoadSource loads a design from memory. filename is only used in
// diagnostics.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*config.Model, config.Converter, error) {
	f, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, nil, generr.Configuration(diags, "failed to parse HCL source %s", filename)
	}

	model := &config.Model{}
	if err := l.merge(ctx, model, f); err != nil {
		return nil, nil, generr.Configuration(err, "failed to load design %s", filename)
	}
	return model, NewConverter(), nil
}

// merge decodes one file and folds it into model.
func (l *Loader) merge(ctx context.Context, model *config.Model, f *hcl.File) error {
	var design DesignFile
	if diags := gohcl.DecodeBody(f.Body, nil, &design); diags.HasErrors() {
		return diags
	}

	if design.Seed != nil {
		if model.Seed != nil {
			return generr.Configurationf("seed is declared more than once")
		}
		model.Seed = design.Seed
	}
	if design.Rows != nil {
		if model.Rows != nil {
			return generr.Configurationf("rows is declared more than once")
		}
		if *design.Rows < 0 {
			return generr.Configurationf("rows must not be negative, got %d", *design.Rows)
		}
		model.Rows = design.Rows
	}
	if design.Output != nil {
		if model.Output != nil {
			return generr.Configurationf("output is declared more than once")
		}
		model.Output = translateOutput(design.Output)
	}

	for _, pb := range design.Properties {
		if model.Property(pb.Name) != nil {
			return generr.Configurationf("property %q is declared more than once", pb.Name)
		}
		p, err := translateProperty(ctx, pb)
		if err != nil {
			return err
		}
		model.Properties = append(model.Properties, p)
	}
	return nil
}
