// Package sequence provides consecutive numbers: start, start+step, ...
package sequence

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/vk/datagridgo/internal/ctxlog"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/vk/datagridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Options defines the attributes of the 'options' block.
type Options struct {
	Start int64 `hcl:"start,optional"`
	Step  int64 `hcl:"step,optional"`
}

// Register registers the provider with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider("sequence", &registry.RegisteredProvider{
		Description: "Consecutive whole numbers starting at start, step apart.",
		NewOptions:  func() any { return &Options{Start: 1, Step: 1} },
		New: func(opts any) (provider.Provider, error) {
			o := opts.(*Options)
			if o.Step == 0 {
				return nil, errors.New("step must not be 0")
			}
			return &Provider{start: o.Start, step: o.Step}, nil
		},
	})
}

// Provider hands out the next number of the sequence on every call,
// skipping excluded ones. Load rewinds it.
type Provider struct {
	provider.Base
	start, step int64
	next        int64
}

var _ provider.Provider = (*Provider)(nil)

func (p *Provider) Type() cty.Type { return cty.Number }

func (p *Provider) Load(ctx context.Context, prop provider.PropertyInfo, rowCount int) error {
	ctxlog.FromContext(ctx).Debug("Rewinding sequence.", "property", prop.ID(), "start", p.start, "rows", rowCount)
	p.next = 0
	return nil
}

func (p *Provider) GetByID(id string) (cty.Value, error) {
	v, err := provider.ParseNumberID(id)
	if err != nil {
		return cty.NilVal, err
	}
	var n int64
	if err := gocty.FromCtyValue(v, &n); err != nil {
		return cty.NilVal, errors.Mark(err, provider.ErrInvalidID)
	}
	return v, nil
}

func (p *Provider) GetValueID(v cty.Value) (string, error) {
	return provider.NumberID(v)
}

func (p *Provider) Get(_ *provider.Context, excluded *provider.ValueSet) (cty.Value, error) {
	return provider.Draw(p, excluded, func() (cty.Value, error) {
		v := cty.NumberIntVal(p.start + p.next*p.step)
		p.next++
		return v, nil
	})
}
