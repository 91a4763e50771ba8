package registry

import (
	"context"
	"fmt"

	"github.com/vk/datagridgo/internal/ctxlog"
	"github.com/vk/datagridgo/internal/generr"
	"github.com/vk/datagridgo/internal/provider"
)

// RegisteredProvider holds the compiled Go parts of a provider.
type RegisteredProvider struct {
	// Description is a one-line summary shown by the providers command.
	Description string
	// NewOptions returns a pointer to a fresh options struct, or nil when
	// the provider takes no options.
	NewOptions func() any
	// New builds a provider from the decoded options.
	New func(opts any) (provider.Provider, error)
}

// DecodeFunc fills an options struct from a design file.
type DecodeFunc func(target any) error

// Build constructs a fresh provider instance of the named kind. decode is
// called with the provider's options struct; it may be nil when no options
// were given.
func (r *Registry) Build(ctx context.Context, name string, decode DecodeFunc) (provider.Provider, error) {
	logger := ctxlog.FromContext(ctx)

	reg, ok := r.providers[name]
	if !ok {
		return nil, generr.Configurationf("unknown provider %q (registered: %v)", name, r.Names())
	}
	if reg.New == nil {
		return nil, generr.Configurationf("provider %q has no constructor", name)
	}

	var opts any
	if reg.NewOptions != nil {
		opts = reg.NewOptions()
		if decode != nil {
			if err := decode(opts); err != nil {
				return nil, generr.Configuration(err, "decoding options of provider %q", name)
			}
		}
	}
	logger.Debug("Building provider.", "name", name, "options", fmt.Sprintf("%+v", opts))

	p, err := reg.New(opts)
	if err != nil {
		return nil, generr.Configuration(err, "building provider %q", name)
	}
	return p, nil
}
