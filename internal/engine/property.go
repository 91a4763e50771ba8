package engine

import (
	"github.com/vk/datagridgo/internal/provider"
	"github.com/zclconf/go-cty/cty"
)

// WeightedValue asks for Weight of the rows to hold exactly Value.
type WeightedValue struct {
	Weight float64
	Value  cty.Value
}

// WeightedRange asks for Weight of the rows to hold a value in [Min, Max).
type WeightedRange struct {
	Weight float64
	Min    cty.Value
	Max    cty.Value
}

// Argument binds one or more upstream properties to a provider argument.
type Argument struct {
	Name       string
	Properties []string
}

// Property is a named column bound to the provider that fills it. A property
// owns its provider; the same provider instance must not back two
// properties. Properties are configured through options at construction and
// are read-only afterwards.
type Property struct {
	id       string
	provider provider.Provider
	typ      cty.Type
	unique   bool
	notNull  bool
	args     []Argument

	values         []WeightedValue
	valuesDeclared bool
	ranges         []WeightedRange
	rangesDeclared bool
}

// PropertyOption configures a Property.
type PropertyOption func(*Property)

// NewProperty creates a property named id backed by p.
func NewProperty(id string, p provider.Provider, opts ...PropertyOption) *Property {
	prop := &Property{
		id:       id,
		provider: p,
		typ:      cty.DynamicPseudoType,
	}
	for _, opt := range opts {
		opt(prop)
	}
	return prop
}

// Unique requires every non-null value of the property to be distinct
// across the run.
func Unique() PropertyOption {
	return func(p *Property) { p.unique = true }
}

// NotNull forbids null and empty values.
func NotNull() PropertyOption {
	return func(p *Property) { p.notNull = true }
}

// WithArgument binds the values of the given upstream properties to the
// provider argument name. Repeating a name appends to its binding.
func WithArgument(name string, propertyIDs ...string) PropertyOption {
	return func(p *Property) {
		for i := range p.args {
			if p.args[i].Name == name {
				p.args[i].Properties = append(p.args[i].Properties, propertyIDs...)
				return
			}
		}
		p.args = append(p.args, Argument{Name: name, Properties: append([]string(nil), propertyIDs...)})
	}
}

// WithWeightedValues declares discrete value buckets. Rows left over after
// every bucket got its share receive any other value.
func WithWeightedValues(values ...WeightedValue) PropertyOption {
	return func(p *Property) {
		p.valuesDeclared = true
		p.values = append(p.values, values...)
	}
}

// WithWeightedRanges declares range buckets. Rows left over after every
// bucket got its share receive a value outside all declared ranges.
func WithWeightedRanges(ranges ...WeightedRange) PropertyOption {
	return func(p *Property) {
		p.rangesDeclared = true
		p.ranges = append(p.ranges, ranges...)
	}
}

// WithType asserts the type the provider must produce.
func WithType(t cty.Type) PropertyOption {
	return func(p *Property) { p.typ = t }
}

// ID returns the property's name.
func (p *Property) ID() string { return p.id }

// IsUnique reports whether the property was declared Unique.
func (p *Property) IsUnique() bool { return p.unique }

// IsNotNull reports whether the property was declared NotNull.
func (p *Property) IsNotNull() bool { return p.notNull }

// Type returns the type of the property's values.
func (p *Property) Type() cty.Type {
	if p.provider == nil || !p.typ.Equals(cty.DynamicPseudoType) {
		return p.typ
	}
	return p.provider.Type()
}

// Arguments returns a copy of the property's argument bindings in
// declaration order.
func (p *Property) Arguments() []Argument {
	out := make([]Argument, len(p.args))
	for i, a := range p.args {
		out[i] = Argument{Name: a.Name, Properties: append([]string(nil), a.Properties...)}
	}
	return out
}

// WeightedValues returns a copy of the declared value buckets.
func (p *Property) WeightedValues() []WeightedValue {
	return append([]WeightedValue(nil), p.values...)
}

// WeightedRanges returns a copy of the declared range buckets.
func (p *Property) WeightedRanges() []WeightedRange {
	return append([]WeightedRange(nil), p.ranges...)
}

// dependencies lists the upstream property ids in argument order.
func (p *Property) dependencies() []string {
	var ids []string
	for _, a := range p.args {
		ids = append(ids, a.Properties...)
	}
	return ids
}

func (p *Property) weights() []float64 {
	var w []float64
	switch {
	case p.valuesDeclared:
		for _, v := range p.values {
			w = append(w, v.Weight)
		}
	case p.rangesDeclared:
		for _, r := range p.ranges {
			w = append(w, r.Weight)
		}
	}
	return w
}

var _ provider.PropertyInfo = (*Property)(nil)
