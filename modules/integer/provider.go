// Package integer provides whole numbers drawn uniformly from a half-open
// interval.
package integer

import (
	"github.com/cockroachdb/errors"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Provider draws integers from [Min, Max).
type Provider struct {
	provider.Base
	domain provider.Interval[int64]
}

var (
	_ provider.Provider       = (*Provider)(nil)
	_ provider.Ranged         = (*Provider)(nil)
	_ provider.RangeValidator = (*Provider)(nil)
)

// New returns a provider over [min, max).
func New(min, max int64) *Provider {
	return &Provider{domain: provider.Interval[int64]{Lo: min, Hi: max}}
}

func (p *Provider) Type() cty.Type { return cty.Number }

func (p *Provider) GetByID(id string) (cty.Value, error) {
	v, err := provider.ParseNumberID(id)
	if err != nil {
		return cty.NilVal, err
	}
	if _, err := toInt(v); err != nil {
		return cty.NilVal, errors.Mark(err, provider.ErrInvalidID)
	}
	return v, nil
}

func (p *Provider) GetValueID(v cty.Value) (string, error) {
	return provider.NumberID(v)
}

func (p *Provider) Get(_ *provider.Context, excluded *provider.ValueSet) (cty.Value, error) {
	return p.draw([]provider.Interval[int64]{p.domain}, excluded)
}

func (p *Provider) GetRanged(_ *provider.Context, min, max cty.Value, excluded *provider.ValueSet) (cty.Value, error) {
	iv, err := toInterval(min, max)
	if err != nil {
		return cty.NilVal, err
	}
	return p.draw([]provider.Interval[int64]{iv}, excluded)
}

// ValidateRange rejects bounds that are not whole numbers or enclose none.
func (p *Provider) ValidateRange(min, max cty.Value) error {
	iv, err := toInterval(min, max)
	if err != nil {
		return err
	}
	return provider.CheckRange(iv)
}

func (p *Provider) GetExcludingRanges(_ *provider.Context, ranges []provider.Range, excluded *provider.ValueSet) (cty.Value, error) {
	cuts := make([]provider.Interval[int64], 0, len(ranges))
	for _, r := range ranges {
		iv, err := toInterval(r.Min, r.Max)
		if err != nil {
			return cty.NilVal, err
		}
		cuts = append(cuts, iv)
	}
	return p.draw(provider.Complement(p.domain, cuts), excluded)
}

func (p *Provider) draw(ivs []provider.Interval[int64], excluded *provider.ValueSet) (cty.Value, error) {
	rng, err := p.Rand()
	if err != nil {
		return cty.NilVal, err
	}
	return provider.DrawInt(p, rng, ivs, excluded, cty.NumberIntVal)
}

func toInterval(min, max cty.Value) (provider.Interval[int64], error) {
	lo, err := toInt(min)
	if err != nil {
		return provider.Interval[int64]{}, errors.Wrap(err, "range min")
	}
	hi, err := toInt(max)
	if err != nil {
		return provider.Interval[int64]{}, errors.Wrap(err, "range max")
	}
	return provider.Interval[int64]{Lo: lo, Hi: hi}, nil
}

func toInt(v cty.Value) (int64, error) {
	var n int64
	if err := gocty.FromCtyValue(v, &n); err != nil {
		return 0, errors.Wrap(err, "expected a whole number")
	}
	return n, nil
}
