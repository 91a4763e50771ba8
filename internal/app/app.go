package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/datagridgo/internal/config"
	"github.com/vk/datagridgo/internal/ctxlog"
	"github.com/vk/datagridgo/internal/registry"
	"github.com/vk/datagridgo/internal/sink"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	loader   config.Loader
	config   *Config

	s3   sink.ObjectPutter
	http sink.HTTPDoer
}

// Option customizes an App.
type Option func(*App)

// WithS3Client replaces the S3 client built from the environment.
func WithS3Client(c sink.ObjectPutter) Option {
	return func(a *App) { a.s3 = c }
}

// WithHTTPClient replaces the client used for http(s) outputs.
func WithHTTPClient(c sink.HTTPDoer) Option {
	return func(a *App) { a.http = c }
}

// WithModules replaces the compiled-in provider modules.
func WithModules(modules ...registry.Module) Option {
	return func(a *App) { a.registry = registry.New(modules...) }
}

// NewApp is the constructor for the main application. Rows and other data
// go to outW; logs go to logW. It panics when a compiled-in provider module
// is malformed.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader, opts ...Option) *App {
	logger := newLogger(appConfig, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:   outW,
		logger: logger,
		loader: loader,
		config: appConfig,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.registry == nil {
		a.registry = registry.New(coreModules...)
	}
	logger.Debug("All Go modules registered.", "providers", len(a.registry.Names()))

	// A mismatch between a module's options struct and the decoder is a
	// programmer error.
	if err := a.registry.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
