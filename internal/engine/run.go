package engine

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/vk/datagridgo/internal/ctxlog"
	"github.com/vk/datagridgo/internal/generr"
	"github.com/vk/datagridgo/internal/planner"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/exp/rand"
)

// run is the state of a single Generate call.
type run struct {
	g        *Generator
	props    []*propertyRun
	rowCount int
}

// propertyRun tracks one property during a run.
type propertyRun struct {
	prop *Property

	// seen holds the ids of every value produced so far. Only unique
	// properties track it.
	seen *provider.ValueSet
	// declared holds the ids of the weighted values. The default bucket
	// must avoid them.
	declared *provider.ValueSet
	// remainder is the exclusion set of the default bucket: declared plus
	// seen for unique properties, declared alone otherwise.
	remainder *provider.ValueSet

	ranges []provider.Range
	plan   *planner.Plan
}

func newRun(g *Generator, order []*Property, rowCount int) *run {
	r := &run{g: g, rowCount: rowCount}
	for _, p := range order {
		pr := &propertyRun{prop: p}
		if p.unique {
			pr.seen = provider.NewValueSet()
		}
		r.props = append(r.props, pr)
	}
	return r
}

// prepare seeds and loads every provider and builds the distribution plans.
func (r *run) prepare(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	for _, pr := range r.props {
		p := pr.prop
		if !r.g.seeded[p.id] {
			err := p.provider.InitRandomizer(r.g.seedFor(p.id, "provider"))
			if err != nil && !errors.Is(err, provider.ErrRandomizerInitialized) {
				return generr.ProviderFailure(err, "seeding property %q", p.id)
			}
			r.g.seeded[p.id] = true
		}

		r.g.observers.PropertyLoadStarting(ctx, p)
		if err := p.provider.Load(ctxlog.With(ctx, "property", p.id), p, r.rowCount); err != nil {
			return generr.ProviderFailure(err, "loading property %q", p.id)
		}
		r.g.observers.PropertyLoadFinished(ctx, p)
	}

	for _, pr := range r.props {
		if err := r.plan(pr); err != nil {
			return err
		}
		if pr.plan != nil {
			logger.Debug("Distribution planned.", "property", pr.prop.id, "buckets", pr.plan.Buckets(), "default_rows", pr.plan.DefaultRemaining())
		}
	}
	return nil
}

func (r *run) plan(pr *propertyRun) error {
	p := pr.prop
	if !p.valuesDeclared && !p.rangesDeclared {
		return nil
	}

	rng := rand.New(rand.NewSource(r.g.seedFor(p.id, "plan")))
	plan, err := planner.New(p.weights(), r.rowCount, rng)
	if err != nil {
		return generr.Configuration(err, "property %q", p.id)
	}
	pr.plan = plan

	if p.valuesDeclared {
		pr.declared = provider.NewValueSet()
		for i, wv := range p.values {
			id, err := p.provider.GetValueID(wv.Value)
			if err != nil {
				return generr.Configuration(err, "property %q: weighted value %d", p.id, i)
			}
			pr.declared.Add(id)
		}
		pr.remainder = pr.declared.Clone()
	}

	for _, wr := range p.ranges {
		pr.ranges = append(pr.ranges, provider.Range{Min: wr.Min, Max: wr.Max})
	}
	return nil
}

// generate produces every row of the run.
func (r *run) generate(ctx context.Context) ([]Row, error) {
	rows := make([]Row, 0, r.rowCount)
	for i := 0; i < r.rowCount; i++ {
		row := make(Row, len(r.props))
		for _, pr := range r.props {
			v, err := r.value(pr, i, row)
			if err != nil {
				return nil, err
			}
			row[pr.prop.id] = v
			r.g.observers.ValueGenerated(ctx, pr.prop, i, v)
		}
		r.g.observers.RowGenerated(ctx, i, row)
		rows = append(rows, row)
	}
	return rows, nil
}

// value produces and checks the value of one property in one row.
func (r *run) value(pr *propertyRun, rowIndex int, row Row) (cty.Value, error) {
	p := pr.prop
	pctx := provider.NewContext(rowIndex, r.rowCount, row.Clone(), r.arguments(p, row))

	v, err := r.candidate(pr, pctx)
	if err != nil {
		return cty.NilVal, err
	}

	if p.notNull && provider.IsEmpty(v) {
		return cty.NilVal, generr.ContractViolationf("property %q is not null but its provider returned an empty value in row %d", p.id, rowIndex)
	}
	if v.IsNull() || pr.seen == nil {
		return v, nil
	}

	id, err := p.provider.GetValueID(v)
	if err != nil {
		return cty.NilVal, generr.ProviderFailure(err, "property %q: identifying value in row %d", p.id, rowIndex)
	}
	if !pr.seen.Add(id) {
		return cty.NilVal, generr.ContractViolationf("property %q is unique but its provider returned duplicate %q in row %d", p.id, id, rowIndex)
	}
	if pr.remainder != nil {
		pr.remainder.Add(id)
	}
	return v, nil
}

// candidate asks the provider for a value through the path selected by the
// property's distribution plan.
func (r *run) candidate(pr *propertyRun, pctx *provider.Context) (cty.Value, error) {
	p := pr.prop
	bucket := planner.Default
	if pr.plan != nil {
		bucket = pr.plan.Next()
	}

	switch {
	case p.valuesDeclared && bucket != planner.Default:
		return p.values[bucket].Value, nil

	case p.valuesDeclared:
		v, err := p.provider.Get(pctx, pr.remainder)
		if err != nil {
			return cty.NilVal, providerError(err, p, pctx.RowIndex)
		}
		if v.IsNull() {
			return v, nil
		}
		id, err := p.provider.GetValueID(v)
		if err != nil {
			return cty.NilVal, generr.ProviderFailure(err, "property %q: identifying value in row %d", p.id, pctx.RowIndex)
		}
		if pr.declared.Has(id) {
			return cty.NilVal, generr.ContractViolationf("property %q: provider returned weighted value %q for an unweighted row %d", p.id, id, pctx.RowIndex)
		}
		return v, nil

	case p.rangesDeclared && bucket != planner.Default:
		wr := p.ranges[bucket]
		v, err := p.provider.(provider.Ranged).GetRanged(pctx, wr.Min, wr.Max, pr.seen)
		if err != nil {
			return cty.NilVal, providerError(err, p, pctx.RowIndex)
		}
		return v, nil

	case p.rangesDeclared:
		v, err := p.provider.(provider.Ranged).GetExcludingRanges(pctx, pr.ranges, pr.seen)
		if errors.Is(err, provider.ErrNotSupported) {
			v, err = p.provider.Get(pctx, pr.seen)
		}
		if err != nil {
			return cty.NilVal, providerError(err, p, pctx.RowIndex)
		}
		return v, nil

	default:
		v, err := p.provider.Get(pctx, pr.seen)
		if err != nil {
			return cty.NilVal, providerError(err, p, pctx.RowIndex)
		}
		return v, nil
	}
}

// arguments resolves the argument values of p from the current row.
func (r *run) arguments(p *Property, row Row) map[string][]cty.Value {
	if len(p.args) == 0 {
		return nil
	}
	args := make(map[string][]cty.Value, len(p.args))
	for _, a := range p.args {
		vals := make([]cty.Value, 0, len(a.Properties))
		for _, id := range a.Properties {
			vals = append(vals, row[id])
		}
		args[a.Name] = vals
	}
	return args
}

func providerError(err error, p *Property, rowIndex int) error {
	if errors.Is(err, provider.ErrNotSupported) {
		return generr.ContractViolation(err, "property %q: row %d", p.id, rowIndex)
	}
	return generr.ProviderFailure(err, "property %q: row %d", p.id, rowIndex)
}
