package hcl

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/vk/datagridgo/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// propertyType reads the optional `type` attribute of a property block. An
// absent attribute or the bare keyword `any` leaves the type to the
// provider; anything else must name an exact type such as `string` or
// `list(number)`.
func propertyType(ctx context.Context, expr hcl.Expression) (cty.Type, hcl.Diagnostics) {
	if expr == nil {
		return cty.DynamicPseudoType, nil
	}
	// gohcl fills an absent optional expression with a static null.
	if val, diags := expr.Value(nil); !diags.HasErrors() && val.IsNull() {
		return cty.DynamicPseudoType, nil
	}
	if hcl.ExprAsKeyword(expr) == "any" {
		return cty.DynamicPseudoType, nil
	}

	typ, diags := typeexpr.Type(expr)
	if diags.HasErrors() {
		return cty.DynamicPseudoType, diags
	}
	ctxlog.FromContext(ctx).Debug("Property type parsed.", "type", typ.FriendlyName())
	return typ, nil
}
