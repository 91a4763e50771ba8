package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// DesignFile represents the top-level structure of a design file.
type DesignFile struct {
	Seed       *uint64          `hcl:"seed,optional"`
	Rows       *int             `hcl:"rows,optional"`
	Output     *OutputBlock     `hcl:"output,block"`
	Properties []*PropertyBlock `hcl:"property,block"`
}

// OutputBlock represents the `output` block.
type OutputBlock struct {
	Format string `hcl:"format,optional"`
	Path   string `hcl:"path,optional"`
	Table  string `hcl:"table,optional"`
}

// BodyBlock captures a block whose content is interpreted later, such as
// `options` or `arguments`.
type BodyBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// PropertyBlock represents a `property` block: one generated column.
type PropertyBlock struct {
	Name           string                `hcl:"name,label"`
	Provider       string                `hcl:"provider"`
	Unique         bool                  `hcl:"unique,optional"`
	NotNull        bool                  `hcl:"not_null,optional"`
	Type           hcl.Expression        `hcl:"type,optional"`
	Options        *BodyBlock            `hcl:"options,block"`
	Arguments      *BodyBlock            `hcl:"arguments,block"`
	WeightedValues []*WeightedValueBlock `hcl:"weighted_value,block"`
	WeightedRanges []*WeightedRangeBlock `hcl:"weighted_range,block"`
}

// WeightedValueBlock represents a `weighted_value` block.
type WeightedValueBlock struct {
	Weight float64   `hcl:"weight"`
	Value  cty.Value `hcl:"value"`
}

// WeightedRangeBlock represents a `weighted_range` block.
type WeightedRangeBlock struct {
	Weight float64   `hcl:"weight"`
	Min    cty.Value `hcl:"min"`
	Max    cty.Value `hcl:"max"`
}
