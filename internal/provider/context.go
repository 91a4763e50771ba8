package provider

import (
	"github.com/zclconf/go-cty/cty"
)

// Context is what a provider sees of the row being generated: its position
// in the run, the sibling values produced earlier in the same row, and the
// argument values bound to it. A Context is read-only for providers.
type Context struct {
	RowIndex int
	RowCount int

	row  map[string]cty.Value
	args map[string][]cty.Value
}

// NewContext builds a Context. The maps are not copied; the caller must not
// change them while the provider runs.
func NewContext(rowIndex, rowCount int, row map[string]cty.Value, args map[string][]cty.Value) *Context {
	return &Context{
		RowIndex: rowIndex,
		RowCount: rowCount,
		row:      row,
		args:     args,
	}
}

// Value returns the value already generated for propertyID in this row.
func (c *Context) Value(propertyID string) (cty.Value, bool) {
	if c == nil {
		return cty.NilVal, false
	}
	v, ok := c.row[propertyID]
	return v, ok
}

// Argument returns the first value bound to the named argument.
func (c *Context) Argument(name string) (cty.Value, bool) {
	if c == nil {
		return cty.NilVal, false
	}
	vals := c.args[name]
	if len(vals) == 0 {
		return cty.NilVal, false
	}
	return vals[0], true
}

// Arguments returns every value bound to the named argument, in binding
// order.
func (c *Context) Arguments(name string) []cty.Value {
	if c == nil {
		return nil
	}
	vals := c.args[name]
	out := make([]cty.Value, len(vals))
	copy(out, vals)
	return out
}
