package cli

import (
	"context"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/vk/datagridgo/internal/app"
	"github.com/vk/datagridgo/internal/generr"
	"github.com/vk/datagridgo/internal/hcl"
	"github.com/vk/datagridgo/internal/sink"
)

// Exit codes.
const (
	ExitGeneration    = 1
	ExitUsage         = 2
	ExitConfiguration = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// flags holds the values shared by the generate and validate commands.
type flags struct {
	rows      int
	seed      uint64
	format    string
	output    string
	table     string
	logLevel  string
	logFormat string
}

// Execute runs the command line in args. Data goes to outW, logs and help
// for errors to errW. Any failure comes back as an *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer, opts ...app.Option) error {
	ran := false
	root := newRootCommand(outW, errW, &ran, opts)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	return exitError(err, ran)
}

// exitError maps err to an exit code. Errors raised before a command body
// started are usage errors.
func exitError(err error, ran bool) *ExitError {
	switch {
	case !ran:
		return &ExitError{Code: ExitUsage, Message: err.Error() + "\nRun 'datagridgo --help' for usage."}
	case errors.Is(err, generr.ErrConfiguration):
		return &ExitError{Code: ExitConfiguration, Message: "configuration error: " + err.Error()}
	default:
		return &ExitError{Code: ExitGeneration, Message: "generation failed: " + err.Error()}
	}
}

func newRootCommand(outW, errW io.Writer, ran *bool, opts []app.Option) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "datagridgo",
		Short: "Generate synthetic rows from a declarative design",
		Long: `datagridgo - Declarative synthetic data generation.

A design file describes properties (columns), the provider that fills each
one, and how values are distributed. datagridgo resolves the dependencies
between properties, plans weighted values and ranges, and writes the rows as
JSON, YAML, CSV, text, or into a SQL table.

Examples:
  datagridgo generate people.hcl                  # JSON rows on stdout
  datagridgo generate people.hcl -n 1000 -o out.csv
  datagridgo generate people.hcl -f sql -o sqlite://people.db --table people
  datagridgo validate people.hcl                  # Check a design
  datagridgo providers                            # List providers`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "info", "Logging level: "+strings.Join(app.LogLevels, ", "))
	root.PersistentFlags().StringVar(&f.logFormat, "log-format", "text", "Log output format: "+strings.Join(app.LogFormats, ", "))

	generate := &cobra.Command{
		Use:   "generate DESIGN",
		Short: "Generate rows from a design file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			*ran = true
			a, err := newApp(cmd, f, args[0], outW, errW, opts)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
	generate.Flags().IntVarP(&f.rows, "rows", "n", app.DefaultRows, "Number of rows; overrides the design")
	generate.Flags().Uint64Var(&f.seed, "seed", 0, "Random seed; overrides the design")
	generate.Flags().StringVarP(&f.format, "format", "f", "", "Output format: "+strings.Join(sink.Formats(), ", "))
	generate.Flags().StringVarP(&f.output, "output", "o", "", "Output file, s3://bucket/key, http(s) URL or database URL; - for stdout")
	generate.Flags().StringVar(&f.table, "table", "", "Table name for sql output")

	validate := &cobra.Command{
		Use:   "validate DESIGN",
		Short: "Check a design without generating rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			*ran = true
			a, err := newApp(cmd, f, args[0], outW, errW, opts)
			if err != nil {
				return err
			}
			return a.Validate(cmd.Context())
		},
	}

	providers := &cobra.Command{
		Use:   "providers",
		Short: "List the registered value providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			*ran = true
			a, err := newApp(cmd, f, "", outW, errW, opts)
			if err != nil {
				return err
			}
			return a.Providers()
		},
	}

	root.AddCommand(generate, validate, providers)
	return root
}

// newApp builds the application from flags. Only flags set on the command
// line override the design.
func newApp(cmd *cobra.Command, f *flags, design string, outW, errW io.Writer, opts []app.Option) (*app.App, error) {
	cfg := app.Config{
		DesignPath: design,
		Format:     strings.ToLower(f.format),
		Output:     f.output,
		Table:      f.table,
		LogLevel:   strings.ToLower(f.logLevel),
		LogFormat:  strings.ToLower(f.logFormat),
	}
	if fl := cmd.Flags().Lookup("rows"); fl != nil && fl.Changed {
		cfg.Rows = &f.rows
	}
	if fl := cmd.Flags().Lookup("seed"); fl != nil && fl.Changed {
		cfg.Seed = &f.seed
	}

	appConfig, err := app.NewConfig(cfg)
	if err != nil {
		return nil, err
	}
	return app.NewApp(outW, errW, appConfig, hcl.NewLoader(), opts...), nil
}
