package decimal

import (
	"github.com/cockroachdb/errors"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/vk/datagridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Options defines the attributes of the 'options' block.
type Options struct {
	Min float64 `hcl:"min,optional"`
	Max float64 `hcl:"max,optional"`
	// Scale is the number of digits kept after the decimal point.
	Scale int `hcl:"scale,optional"`
}

// Register registers the provider with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider("decimal", &registry.RegisteredProvider{
		Description: "Decimal numbers in [min, max) rounded to scale digits; supports weighted ranges.",
		NewOptions:  func() any { return &Options{Min: 0, Max: 1, Scale: 2} },
		New: func(opts any) (provider.Provider, error) {
			o := opts.(*Options)
			if !(o.Min < o.Max) {
				return nil, errors.Newf("min (%g) must be less than max (%g)", o.Min, o.Max)
			}
			if o.Scale < 0 || o.Scale > maxScale {
				return nil, errors.Newf("scale must be between 0 and %d, got %d", maxScale, o.Scale)
			}
			return New(o.Min, o.Max, o.Scale), nil
		},
	})
}
