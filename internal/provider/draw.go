package provider

import (
	"github.com/zclconf/go-cty/cty"
)

// Draw calls next until it produces a value whose id, as computed by p, is
// not in excluded. It gives up with ErrExhausted after MaxAttempts draws.
func Draw(p Provider, excluded *ValueSet, next func() (cty.Value, error)) (cty.Value, error) {
	for range MaxAttempts {
		v, err := next()
		if err != nil {
			return cty.NilVal, err
		}
		if excluded.Len() == 0 {
			return v, nil
		}
		id, err := p.GetValueID(v)
		if err != nil {
			return cty.NilVal, err
		}
		if !excluded.Has(id) {
			return v, nil
		}
	}
	return cty.NilVal, ErrExhausted
}

// IsEmpty reports whether v counts as "no value": null, unknown, or an
// empty string.
func IsEmpty(v cty.Value) bool {
	if !v.IsKnown() || v.IsNull() {
		return true
	}
	if v.Type() == cty.String && v.AsString() == "" {
		return true
	}
	return false
}
