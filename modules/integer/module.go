package integer

import (
	"github.com/cockroachdb/errors"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/vk/datagridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Options defines the attributes of the 'options' block.
type Options struct {
	Min int64 `hcl:"min,optional"`
	Max int64 `hcl:"max,optional"`
}

// Register registers the provider with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider("integer", &registry.RegisteredProvider{
		Description: "Whole numbers in [min, max); supports weighted ranges.",
		NewOptions:  func() any { return &Options{Min: 0, Max: 1000} },
		New: func(opts any) (provider.Provider, error) {
			o := opts.(*Options)
			if o.Min >= o.Max {
				return nil, errors.Newf("min (%d) must be less than max (%d)", o.Min, o.Max)
			}
			return New(o.Min, o.Max), nil
		},
	})
}
