package app

import (
	"slices"

	"github.com/vk/datagridgo/internal/generr"
	"github.com/vk/datagridgo/internal/sink"
)

// DefaultRows is the row count used when neither the design nor the caller
// sets one.
const DefaultRows = 10

// Config holds all the necessary configuration for an App instance to run.
// Non-empty fields override what the design file says.
type Config struct {
	DesignPath string // hcl file or directory

	Rows   *int
	Seed   *uint64
	Format string
	Output string
	Table  string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Rows != nil && *cfg.Rows < 0 {
		return nil, generr.Configurationf("rows must not be negative, got %d", *cfg.Rows)
	}
	if cfg.Format != "" && !slices.Contains(sink.Formats(), cfg.Format) {
		return nil, generr.Configurationf("unknown output format %q (supported: %v)", cfg.Format, sink.Formats())
	}
	if cfg.LogFormat != "" && !slices.Contains(LogFormats, cfg.LogFormat) {
		return nil, generr.Configurationf("invalid log format %q: must be one of %v", cfg.LogFormat, LogFormats)
	}
	if cfg.LogLevel != "" && !slices.Contains(LogLevels, cfg.LogLevel) {
		return nil, generr.Configurationf("invalid log level %q: must be one of %v", cfg.LogLevel, LogLevels)
	}
	return &cfg, nil
}
