package testutil

import (
	"context"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Calls counts how often the engine reached into a fake provider.
type Calls struct {
	Inits int
	Loads int
	Gets  int
	// LoadedRows is the row count passed to the last Load.
	LoadedRows int
}

// IntProvider produces integers in [Lo, Hi). It supports ranges.
type IntProvider struct {
	provider.Randomizer
	Calls
	Lo, Hi int64
}

var (
	_ provider.Provider       = (*IntProvider)(nil)
	_ provider.Ranged         = (*IntProvider)(nil)
	_ provider.RangeValidator = (*IntProvider)(nil)
)

// NewIntProvider returns an IntProvider over [lo, hi).
func NewIntProvider(lo, hi int64) *IntProvider {
	return &IntProvider{Lo: lo, Hi: hi}
}

func (p *IntProvider) Type() cty.Type { return cty.Number }

func (p *IntProvider) GetByID(id string) (cty.Value, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return cty.NilVal, errors.Mark(err, provider.ErrInvalidID)
	}
	return cty.NumberIntVal(n), nil
}

func (p *IntProvider) GetValueID(v cty.Value) (string, error) {
	var n int64
	if err := gocty.FromCtyValue(v, &n); err != nil {
		return "", err
	}
	return strconv.FormatInt(n, 10), nil
}

func (p *IntProvider) SupportedArguments() map[string]cty.Type { return nil }

func (p *IntProvider) InitRandomizer(seed uint64) error {
	p.Inits++
	return p.Randomizer.InitRandomizer(seed)
}

func (p *IntProvider) Load(_ context.Context, _ provider.PropertyInfo, rowCount int) error {
	p.Loads++
	p.LoadedRows = rowCount
	return nil
}

func (p *IntProvider) Get(_ *provider.Context, excluded *provider.ValueSet) (cty.Value, error) {
	p.Gets++
	return p.draw(provider.Interval[int64]{Lo: p.Lo, Hi: p.Hi}, excluded)
}

func (p *IntProvider) GetRanged(_ *provider.Context, min, max cty.Value, excluded *provider.ValueSet) (cty.Value, error) {
	p.Gets++
	var lo, hi int64
	if err := gocty.FromCtyValue(min, &lo); err != nil {
		return cty.NilVal, err
	}
	if err := gocty.FromCtyValue(max, &hi); err != nil {
		return cty.NilVal, err
	}
	return p.draw(provider.Interval[int64]{Lo: lo, Hi: hi}, excluded)
}

func (p *IntProvider) ValidateRange(min, max cty.Value) error {
	var lo, hi int64
	if err := gocty.FromCtyValue(min, &lo); err != nil {
		return err
	}
	if err := gocty.FromCtyValue(max, &hi); err != nil {
		return err
	}
	return provider.CheckRange(provider.Interval[int64]{Lo: lo, Hi: hi})
}

func (p *IntProvider) GetExcludingRanges(_ *provider.Context, ranges []provider.Range, excluded *provider.ValueSet) (cty.Value, error) {
	p.Gets++
	cuts := make([]provider.Interval[int64], 0, len(ranges))
	for _, r := range ranges {
		var lo, hi int64
		if err := gocty.FromCtyValue(r.Min, &lo); err != nil {
			return cty.NilVal, err
		}
		if err := gocty.FromCtyValue(r.Max, &hi); err != nil {
			return cty.NilVal, err
		}
		cuts = append(cuts, provider.Interval[int64]{Lo: lo, Hi: hi})
	}

	rng, err := p.Rand()
	if err != nil {
		return cty.NilVal, err
	}
	free := provider.Complement(provider.Interval[int64]{Lo: p.Lo, Hi: p.Hi}, cuts)
	return provider.Draw(p, excluded, func() (cty.Value, error) {
		iv, ok := provider.PickInterval(rng, free)
		if !ok {
			return cty.NilVal, provider.ErrExhausted
		}
		return cty.NumberIntVal(iv.Lo + rng.Int63n(iv.Hi-iv.Lo)), nil
	})
}

func (p *IntProvider) draw(iv provider.Interval[int64], excluded *provider.ValueSet) (cty.Value, error) {
	rng, err := p.Rand()
	if err != nil {
		return cty.NilVal, err
	}
	if iv.Empty() {
		return cty.NilVal, provider.ErrExhausted
	}
	return provider.Draw(p, excluded, func() (cty.Value, error) {
		return cty.NumberIntVal(iv.Lo + rng.Int63n(iv.Hi-iv.Lo)), nil
	})
}

// PoolProvider picks strings from a fixed pool.
type PoolProvider struct {
	provider.Base
	Calls
	Pool []string
}

var _ provider.Provider = (*PoolProvider)(nil)

// NewPoolProvider returns a PoolProvider over the given strings.
func NewPoolProvider(pool ...string) *PoolProvider {
	return &PoolProvider{Pool: pool}
}

func (p *PoolProvider) Type() cty.Type { return cty.String }

func (p *PoolProvider) GetByID(id string) (cty.Value, error) { return cty.StringVal(id), nil }

func (p *PoolProvider) GetValueID(v cty.Value) (string, error) { return stringID(v) }

func (p *PoolProvider) Load(_ context.Context, _ provider.PropertyInfo, rowCount int) error {
	p.Loads++
	p.LoadedRows = rowCount
	return nil
}

func (p *PoolProvider) Get(_ *provider.Context, excluded *provider.ValueSet) (cty.Value, error) {
	p.Gets++
	rng, err := p.Rand()
	if err != nil {
		return cty.NilVal, err
	}
	if len(p.Pool) == 0 {
		return cty.NilVal, provider.ErrExhausted
	}
	return provider.Draw(p, excluded, func() (cty.Value, error) {
		return cty.StringVal(p.Pool[rng.Intn(len(p.Pool))]), nil
	})
}

// EchoProvider joins the values bound to its "in" argument with "|".
type EchoProvider struct {
	provider.Base
	Calls
	// Seen records every context the provider was called with.
	Seen []*provider.Context
}

var _ provider.Provider = (*EchoProvider)(nil)

func (p *EchoProvider) Type() cty.Type { return cty.String }

func (p *EchoProvider) GetByID(id string) (cty.Value, error) { return cty.StringVal(id), nil }

func (p *EchoProvider) GetValueID(v cty.Value) (string, error) { return stringID(v) }

func (p *EchoProvider) SupportedArguments() map[string]cty.Type {
	return map[string]cty.Type{"in": cty.DynamicPseudoType}
}

func (p *EchoProvider) Load(_ context.Context, _ provider.PropertyInfo, rowCount int) error {
	p.Loads++
	p.LoadedRows = rowCount
	return nil
}

func (p *EchoProvider) Get(ctx *provider.Context, _ *provider.ValueSet) (cty.Value, error) {
	p.Gets++
	p.Seen = append(p.Seen, ctx)

	var parts []string
	for _, v := range ctx.Arguments("in") {
		s, err := stringID(v)
		if err != nil {
			return cty.NilVal, err
		}
		parts = append(parts, s)
	}
	return cty.StringVal(strings.Join(parts, "|")), nil
}

// ConstProvider returns Value on every call, whatever the exclusions.
type ConstProvider struct {
	provider.Base
	Calls
	Value cty.Value
	// Err, when set, is returned from Get instead of Value.
	Err error
	// LoadErr, when set, is returned from Load.
	LoadErr error
}

var _ provider.Provider = (*ConstProvider)(nil)

func (p *ConstProvider) Type() cty.Type {
	if p.Value.Type() == cty.NilType {
		return cty.String
	}
	return p.Value.Type()
}

func (p *ConstProvider) GetByID(id string) (cty.Value, error) { return cty.StringVal(id), nil }

func (p *ConstProvider) GetValueID(v cty.Value) (string, error) { return stringID(v) }

func (p *ConstProvider) Load(_ context.Context, _ provider.PropertyInfo, rowCount int) error {
	p.Loads++
	p.LoadedRows = rowCount
	return p.LoadErr
}

func (p *ConstProvider) Get(*provider.Context, *provider.ValueSet) (cty.Value, error) {
	p.Gets++
	if p.Err != nil {
		return cty.NilVal, p.Err
	}
	return p.Value, nil
}

// stringID renders primitive values the way the fakes identify them.
func stringID(v cty.Value) (string, error) {
	if v.IsNull() || !v.IsKnown() {
		return "", errors.New("cannot identify a null or unknown value")
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", err
	}
	return s.AsString(), nil
}
