package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of a design: what to
// generate and where to write it.
type Model struct {
	// Seed and Rows are nil when the design leaves them to the caller.
	Seed       *uint64
	Rows       *int
	Output     *Output
	Properties []*Property
}

// Output describes where generated rows go.
type Output struct {
	Format string
	Path   string
	Table  string
}

// Property is the format-agnostic representation of a `property` block.
type Property struct {
	Name     string
	Provider string
	Unique   bool
	NotNull  bool
	// Type is cty.DynamicPseudoType when the design does not declare one.
	Type cty.Type
	// Options is the raw options body, decoded later by a Converter into the
	// provider's own options struct.
	Options        hcl.Body
	Arguments      []*Argument
	WeightedValues []*WeightedValue
	WeightedRanges []*WeightedRange
}

// Argument binds upstream properties to a provider argument.
type Argument struct {
	Name       string
	Properties []string
}

// WeightedValue is a literal value bucket. Value is the design literal, not
// yet materialized by the provider.
type WeightedValue struct {
	Weight float64
	Value  cty.Value
}

// WeightedRange is a literal [Min, Max) range bucket.
type WeightedRange struct {
	Weight float64
	Min    cty.Value
	Max    cty.Value
}

// Property returns the property named name, or nil.
func (m *Model) Property(name string) *Property {
	for _, p := range m.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}
