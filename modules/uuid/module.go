// Package uuid provides random version 4 UUIDs drawn from the seeded source.
package uuid

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/vk/datagridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Options defines the attributes of the 'options' block.
type Options struct {
	Uppercase bool `hcl:"uppercase,optional"`
}

// Register registers the provider with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider("uuid", &registry.RegisteredProvider{
		Description: "Random version 4 UUIDs.",
		NewOptions:  func() any { return &Options{} },
		New: func(opts any) (provider.Provider, error) {
			return &Provider{upper: opts.(*Options).Uppercase}, nil
		},
	})
}

// Provider produces UUID strings. Ids are the lower-case canonical form.
type Provider struct {
	provider.Base
	upper bool
}

var _ provider.Provider = (*Provider)(nil)

func (p *Provider) Type() cty.Type { return cty.String }

func (p *Provider) GetByID(id string) (cty.Value, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return cty.NilVal, errors.Mark(err, provider.ErrInvalidID)
	}
	return p.format(u), nil
}

func (p *Provider) GetValueID(v cty.Value) (string, error) {
	s, err := provider.StringID(v)
	if err != nil {
		return "", err
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (p *Provider) Get(_ *provider.Context, excluded *provider.ValueSet) (cty.Value, error) {
	rng, err := p.Rand()
	if err != nil {
		return cty.NilVal, err
	}
	return provider.Draw(p, excluded, func() (cty.Value, error) {
		u, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			return cty.NilVal, err
		}
		return p.format(u), nil
	})
}

func (p *Provider) format(u uuid.UUID) cty.Value {
	if p.upper {
		return cty.StringVal(strings.ToUpper(u.String()))
	}
	return cty.StringVal(u.String())
}
