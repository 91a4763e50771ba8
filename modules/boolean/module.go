// Package boolean provides true/false values with a configurable ratio.
package boolean

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/vk/datagridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Options defines the attributes of the 'options' block.
type Options struct {
	// TrueRatio is the probability of drawing true.
	TrueRatio float64 `hcl:"true_ratio,optional"`
}

// Register registers the provider with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider("boolean", &registry.RegisteredProvider{
		Description: "true or false, true with probability true_ratio.",
		NewOptions:  func() any { return &Options{TrueRatio: 0.5} },
		New: func(opts any) (provider.Provider, error) {
			o := opts.(*Options)
			if o.TrueRatio < 0 || o.TrueRatio > 1 {
				return nil, errors.Newf("true_ratio must be between 0 and 1, got %g", o.TrueRatio)
			}
			return &Provider{ratio: o.TrueRatio}, nil
		},
	})
}

// Provider draws booleans.
type Provider struct {
	provider.Base
	ratio float64
}

var _ provider.Provider = (*Provider)(nil)

func (p *Provider) Type() cty.Type { return cty.Bool }

func (p *Provider) GetByID(id string) (cty.Value, error) {
	b, err := strconv.ParseBool(id)
	if err != nil {
		return cty.NilVal, errors.Mark(err, provider.ErrInvalidID)
	}
	return cty.BoolVal(b), nil
}

func (p *Provider) GetValueID(v cty.Value) (string, error) {
	if v.IsNull() || !v.IsKnown() || v.Type() != cty.Bool {
		return "", errors.Newf("expected a known bool, got %#v", v)
	}
	return strconv.FormatBool(v.True()), nil
}

// Get returns the other value directly when one of the two is excluded.
func (p *Provider) Get(_ *provider.Context, excluded *provider.ValueSet) (cty.Value, error) {
	rng, err := p.Rand()
	if err != nil {
		return cty.NilVal, err
	}
	t, f := excluded.Has("true"), excluded.Has("false")
	switch {
	case t && f:
		return cty.NilVal, provider.ErrExhausted
	case t:
		return cty.False, nil
	case f:
		return cty.True, nil
	}
	return cty.BoolVal(rng.Float64() < p.ratio), nil
}
