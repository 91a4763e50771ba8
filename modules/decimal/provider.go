// Package decimal provides fixed-scale decimal numbers.
package decimal

import (
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

const maxScale = 10

// Provider draws decimals from [min, max). Every value is a multiple of
// 10^-scale, so the domain is a finite grid of steps.
type Provider struct {
	provider.Base
	domain provider.Interval[float64]
	scale  int
	unit   float64
}

var (
	_ provider.Provider       = (*Provider)(nil)
	_ provider.Ranged         = (*Provider)(nil)
	_ provider.RangeValidator = (*Provider)(nil)
)

// New returns a provider over [min, max) with scale fractional digits.
func New(min, max float64, scale int) *Provider {
	return &Provider{
		domain: provider.Interval[float64]{Lo: min, Hi: max},
		scale:  scale,
		unit:   math.Pow10(-scale),
	}
}

func (p *Provider) Type() cty.Type { return cty.Number }

func (p *Provider) GetByID(id string) (cty.Value, error) {
	return provider.ParseNumberID(id)
}

func (p *Provider) GetValueID(v cty.Value) (string, error) {
	return provider.NumberID(v)
}

func (p *Provider) Get(_ *provider.Context, excluded *provider.ValueSet) (cty.Value, error) {
	return p.draw([]provider.Interval[float64]{p.domain}, excluded)
}

func (p *Provider) GetRanged(_ *provider.Context, min, max cty.Value, excluded *provider.ValueSet) (cty.Value, error) {
	iv, err := toInterval(min, max)
	if err != nil {
		return cty.NilVal, err
	}
	return p.draw([]provider.Interval[float64]{iv}, excluded)
}

// ValidateRange rejects ranges that hold no multiple of 10^-scale.
func (p *Provider) ValidateRange(min, max cty.Value) error {
	iv, err := toInterval(min, max)
	if err != nil {
		return err
	}
	if err := provider.CheckRange(p.grid(iv)); err != nil {
		return errors.Wrapf(err, "at scale %d", p.scale)
	}
	return nil
}

func (p *Provider) GetExcludingRanges(_ *provider.Context, ranges []provider.Range, excluded *provider.ValueSet) (cty.Value, error) {
	cuts := make([]provider.Interval[float64], 0, len(ranges))
	for _, r := range ranges {
		iv, err := toInterval(r.Min, r.Max)
		if err != nil {
			return cty.NilVal, err
		}
		cuts = append(cuts, iv)
	}
	return p.draw(provider.Complement(p.domain, cuts), excluded)
}

// draw maps each interval onto the grid of scaled steps it contains and
// picks one step.
func (p *Provider) draw(ivs []provider.Interval[float64], excluded *provider.ValueSet) (cty.Value, error) {
	rng, err := p.Rand()
	if err != nil {
		return cty.NilVal, err
	}

	steps := make([]provider.Interval[int64], 0, len(ivs))
	for _, iv := range ivs {
		steps = append(steps, p.grid(iv))
	}
	return provider.DrawInt(p, rng, steps, excluded, p.value)
}

// grid returns the steps whose values lie in iv.
func (p *Provider) grid(iv provider.Interval[float64]) provider.Interval[int64] {
	return provider.Interval[int64]{
		Lo: int64(math.Ceil(iv.Lo/p.unit - 1e-9)),
		Hi: int64(math.Ceil(iv.Hi/p.unit - 1e-9)),
	}
}

func (p *Provider) value(step int64) cty.Value {
	return cty.MustParseNumberVal(strconv.FormatFloat(float64(step)*p.unit, 'f', p.scale, 64))
}

func toInterval(min, max cty.Value) (provider.Interval[float64], error) {
	var lo, hi float64
	if err := gocty.FromCtyValue(min, &lo); err != nil {
		return provider.Interval[float64]{}, errors.Wrap(err, "range min")
	}
	if err := gocty.FromCtyValue(max, &hi); err != nil {
		return provider.Interval[float64]{}, errors.Wrap(err, "range max")
	}
	return provider.Interval[float64]{Lo: lo, Hi: hi}, nil
}
