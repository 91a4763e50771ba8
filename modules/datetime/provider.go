// Package datetime provides formatted timestamps.
package datetime

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/zclconf/go-cty/cty"
)

// Provider draws instants from [from, to) that lie a whole number of steps
// after from. Values are strings in the configured layout, always in UTC.
type Provider struct {
	provider.Base
	from   time.Time
	step   time.Duration
	layout string
	domain provider.Interval[int64]
}

var (
	_ provider.Provider       = (*Provider)(nil)
	_ provider.Ranged         = (*Provider)(nil)
	_ provider.RangeValidator = (*Provider)(nil)
)

// New returns a provider over [from, to).
func New(from, to time.Time, step time.Duration, layout string) (*Provider, error) {
	if step <= 0 {
		return nil, errors.Newf("step must be positive, got %s", step)
	}
	if !from.Before(to) {
		return nil, errors.Newf("from (%s) must be before to (%s)", from.Format(layout), to.Format(layout))
	}
	p := &Provider{from: from.UTC(), step: step, layout: layout}
	p.domain = provider.Interval[int64]{Lo: 0, Hi: p.index(to)}
	return p, nil
}

func (p *Provider) Type() cty.Type { return cty.String }

func (p *Provider) GetByID(id string) (cty.Value, error) {
	t, err := time.Parse(p.layout, id)
	if err != nil {
		return cty.NilVal, errors.Mark(err, provider.ErrInvalidID)
	}
	return cty.StringVal(t.UTC().Format(p.layout)), nil
}

func (p *Provider) GetValueID(v cty.Value) (string, error) {
	return provider.StringID(v)
}

func (p *Provider) Get(_ *provider.Context, excluded *provider.ValueSet) (cty.Value, error) {
	return p.draw([]provider.Interval[int64]{p.domain}, excluded)
}

func (p *Provider) GetRanged(_ *provider.Context, min, max cty.Value, excluded *provider.ValueSet) (cty.Value, error) {
	iv, err := p.interval(min, max)
	if err != nil {
		return cty.NilVal, err
	}
	return p.draw([]provider.Interval[int64]{iv}, excluded)
}

// ValidateRange rejects bounds that do not parse or enclose no instant of
// the step grid.
func (p *Provider) ValidateRange(min, max cty.Value) error {
	iv, err := p.interval(min, max)
	if err != nil {
		return err
	}
	if err := provider.CheckRange(iv); err != nil {
		return errors.Wrapf(err, "with step %s", p.step)
	}
	return nil
}

func (p *Provider) GetExcludingRanges(_ *provider.Context, ranges []provider.Range, excluded *provider.ValueSet) (cty.Value, error) {
	cuts := make([]provider.Interval[int64], 0, len(ranges))
	for _, r := range ranges {
		iv, err := p.interval(r.Min, r.Max)
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
	return provider.DrawInt(p, rng, ivs, excluded, p.value)
}

func (p *Provider) value(n int64) cty.Value {
	return cty.StringVal(p.from.Add(time.Duration(n) * p.step).Format(p.layout))
}

// index returns the first grid position at or after t.
func (p *Provider) index(t time.Time) int64 {
	d := t.Sub(p.from)
	n := int64(d / p.step)
	if d%p.step > 0 {
		n++
	}
	return n
}

func (p *Provider) interval(min, max cty.Value) (provider.Interval[int64], error) {
	lo, err := p.parse(min)
	if err != nil {
		return provider.Interval[int64]{}, errors.Wrap(err, "range min")
	}
	hi, err := p.parse(max)
	if err != nil {
		return provider.Interval[int64]{}, errors.Wrap(err, "range max")
	}
	return provider.Interval[int64]{Lo: p.index(lo), Hi: p.index(hi)}, nil
}

func (p *Provider) parse(v cty.Value) (time.Time, error) {
	s, err := provider.StringID(v)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(p.layout, s)
}
