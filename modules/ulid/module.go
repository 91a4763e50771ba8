// Package ulid provides ULIDs whose timestamps advance with every value, so
// generated ids sort in row order.
package ulid

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/oklog/ulid/v2"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/vk/datagridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Options defines the attributes of the 'options' block.
type Options struct {
	// From is the RFC 3339 timestamp of the first ULID.
	From string `hcl:"from,optional"`
	// Step is added to the timestamp after each value.
	Step string `hcl:"step,optional"`
}

// Register registers the provider with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider("ulid", &registry.RegisteredProvider{
		Description: "Monotonic ULIDs starting at from, step apart.",
		NewOptions:  func() any { return &Options{From: "2024-01-01T00:00:00Z", Step: "1ms"} },
		New: func(opts any) (provider.Provider, error) {
			o := opts.(*Options)
			from, err := time.Parse(time.RFC3339, o.From)
			if err != nil {
				return nil, errors.Wrap(err, "parsing from")
			}
			step, err := time.ParseDuration(o.Step)
			if err != nil {
				return nil, errors.Wrap(err, "parsing step")
			}
			if step < time.Millisecond {
				return nil, errors.Newf("step must be at least 1ms, got %s", step)
			}
			return &Provider{from: from, step: step}, nil
		},
	})
}

// Provider produces ULID strings.
type Provider struct {
	provider.Base
	from time.Time
	step time.Duration
	n    int64
}

var _ provider.Provider = (*Provider)(nil)

func (p *Provider) Type() cty.Type { return cty.String }

func (p *Provider) GetByID(id string) (cty.Value, error) {
	u, err := ulid.ParseStrict(id)
	if err != nil {
		return cty.NilVal, errors.Mark(err, provider.ErrInvalidID)
	}
	return cty.StringVal(u.String()), nil
}

func (p *Provider) GetValueID(v cty.Value) (string, error) {
	return provider.StringID(v)
}

func (p *Provider) Get(_ *provider.Context, excluded *provider.ValueSet) (cty.Value, error) {
	rng, err := p.Rand()
	if err != nil {
		return cty.NilVal, err
	}
	return provider.Draw(p, excluded, func() (cty.Value, error) {
		at := p.from.Add(time.Duration(p.n) * p.step)
		p.n++
		u, err := ulid.New(ulid.Timestamp(at), rng)
		if err != nil {
			return cty.NilVal, errors.Wrap(err, "building ulid")
		}
		return cty.StringVal(u.String()), nil
	})
}
