package datetime

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/vk/datagridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Options defines the attributes of the 'options' block. From and To are
// written in Layout.
type Options struct {
	From   string `hcl:"from,optional"`
	To     string `hcl:"to,optional"`
	Layout string `hcl:"layout,optional"`
	Step   string `hcl:"step,optional"`
}

// Register registers the provider with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider("datetime", &registry.RegisteredProvider{
		Description: "Timestamps in [from, to) on a step grid, formatted with layout; supports weighted ranges.",
		NewOptions: func() any {
			return &Options{
				From:   "2000-01-01T00:00:00Z",
				To:     "2030-01-01T00:00:00Z",
				Layout: time.RFC3339,
				Step:   "1s",
			}
		},
		New: func(opts any) (provider.Provider, error) {
			o := opts.(*Options)
			step, err := time.ParseDuration(o.Step)
			if err != nil {
				return nil, errors.Wrap(err, "parsing step")
			}
			from, err := time.Parse(o.Layout, o.From)
			if err != nil {
				return nil, errors.Wrap(err, "parsing from")
			}
			to, err := time.Parse(o.Layout, o.To)
			if err != nil {
				return nil, errors.Wrap(err, "parsing to")
			}
			return New(from, to, step, o.Layout)
		},
	})
}
