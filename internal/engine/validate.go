package engine

import (
	"maps"
	"slices"

	"github.com/vk/datagridgo/internal/dag"
	"github.com/vk/datagridgo/internal/generr"
	"github.com/vk/datagridgo/internal/planner"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/zclconf/go-cty/cty"
)

// validate checks every registered property and resolves the generation
// order. It never calls a provider's Load, Get or InitRandomizer.
func (g *Generator) validate() ([]*Property, error) {
	for _, p := range g.props {
		if err := g.validateProperty(p); err != nil {
			return nil, err
		}
	}
	return g.resolveOrder()
}

func (g *Generator) validateProperty(p *Property) error {
	if p.provider == nil {
		return generr.Configurationf("property %q has no provider", p.id)
	}

	if !p.typ.Equals(cty.DynamicPseudoType) && !p.typ.Equals(p.provider.Type()) {
		return generr.Configurationf("property %q is declared as %s but its provider produces %s",
			p.id, p.typ.FriendlyName(), p.provider.Type().FriendlyName())
	}

	if p.valuesDeclared && p.rangesDeclared {
		return generr.Configurationf("property %q declares both weighted values and weighted ranges", p.id)
	}

	if p.valuesDeclared || p.rangesDeclared {
		if err := planner.Validate(p.weights()); err != nil {
			return generr.Configuration(err, "property %q", p.id)
		}
	}

	if p.valuesDeclared {
		for i, wv := range p.values {
			if p.notNull && provider.IsEmpty(wv.Value) {
				return generr.Configurationf("property %q is not null but weighted value %d is empty", p.id, i)
			}
			if _, err := p.provider.GetValueID(wv.Value); err != nil {
				return generr.Configuration(err, "property %q: weighted value %d", p.id, i)
			}
		}
	}

	if p.rangesDeclared {
		if _, ok := p.provider.(provider.Ranged); !ok {
			return generr.Configurationf("property %q declares weighted ranges but its provider does not support ranges", p.id)
		}
		rv, canValidate := p.provider.(provider.RangeValidator)
		for i, wr := range p.ranges {
			if provider.IsEmpty(wr.Min) || provider.IsEmpty(wr.Max) {
				return generr.Configurationf("property %q: weighted range %d needs both min and max", p.id, i)
			}
			if !canValidate {
				continue
			}
			if err := rv.ValidateRange(wr.Min, wr.Max); err != nil {
				return generr.Configuration(err, "property %q: weighted range %d", p.id, i)
			}
		}
	}

	return g.validateArguments(p)
}

func (g *Generator) validateArguments(p *Property) error {
	supported := p.provider.SupportedArguments()

	for _, arg := range p.args {
		if len(arg.Properties) == 0 {
			return generr.Configurationf("property %q: argument %q is bound to no property", p.id, arg.Name)
		}

		expected := cty.DynamicPseudoType
		if len(supported) > 0 {
			t, ok := supported[arg.Name]
			if !ok {
				return generr.Configurationf("property %q: provider does not accept argument %q (supported: %v)",
					p.id, arg.Name, argumentNames(supported))
			}
			expected = t
		}

		for _, upID := range arg.Properties {
			up, ok := g.byID[upID]
			if !ok {
				return generr.Configurationf("property %q: argument %q refers to unknown property %q", p.id, arg.Name, upID)
			}
			if expected.Equals(cty.DynamicPseudoType) || up.provider == nil {
				continue
			}
			if got := up.Type(); !got.Equals(expected) {
				return generr.Configurationf("property %q: argument %q expects %s but property %q produces %s",
					p.id, arg.Name, expected.FriendlyName(), upID, got.FriendlyName())
			}
		}
	}

	return nil
}

// validateQuotas rejects unique properties whose weighted values would have
// to repeat at the given row count.
func (g *Generator) validateQuotas(rowCount int) error {
	for _, p := range g.props {
		if !p.unique || !p.valuesDeclared {
			continue
		}
		quotas, _ := planner.Quotas(p.weights(), rowCount)
		for i, q := range quotas {
			if q > 1 {
				return generr.Configurationf("property %q is unique but weighted value %d would repeat %d times in %d rows",
					p.id, i, q, rowCount)
			}
		}
	}
	return nil
}

// resolveOrder builds the dependency graph and returns the properties in
// generation order.
func (g *Generator) resolveOrder() ([]*Property, error) {
	graph := dag.New()
	for _, p := range g.props {
		graph.AddNode(p.id)
	}
	for _, p := range g.props {
		for _, dep := range p.dependencies() {
			if err := graph.AddEdge(dep, p.id); err != nil {
				return nil, generr.Configuration(err, "property %q", p.id)
			}
		}
	}

	ids, err := graph.TopologicalOrder()
	if err != nil {
		return nil, generr.Configuration(err, "resolving property order")
	}

	order := make([]*Property, len(ids))
	for i, id := range ids {
		order[i] = g.byID[id]
	}
	return order, nil
}

func argumentNames(m map[string]cty.Type) []string {
	return slices.Sorted(maps.Keys(m))
}
