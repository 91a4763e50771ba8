// This file contains the logic for translating HCL schema structs (from
// schema.go) into the format-agnostic design model defined in the config
// package.

package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/datagridgo/internal/config"
	"github.com/vk/datagridgo/internal/generr"
)

// propertyRoot is the root name of traversals that reference another
// property, as in `property.first_name`.
const propertyRoot = "property"

// translateOutput converts the HCL-specific output schema into the agnostic model.
func translateOutput(o *OutputBlock) *config.Output {
	return &config.Output{
		Format: o.Format,
		Path:   o.Path,
		Table:  o.Table,
	}
}

// translateProperty converts the HCL-specific property schema into the agnostic model.
func translateProperty(ctx context.Context, pb *PropertyBlock) (*config.Property, error) {
	if pb.Provider == "" {
		return nil, generr.Configurationf("property %q: provider must not be empty", pb.Name)
	}

	typ, diags := propertyType(ctx, pb.Type)
	if diags.HasErrors() {
		return nil, generr.Configuration(diags, "property %q: invalid type", pb.Name)
	}

	p := &config.Property{
		Name:     pb.Name,
		Provider: pb.Provider,
		Unique:   pb.Unique,
		NotNull:  pb.NotNull,
		Type:     typ,
	}
	if pb.Options != nil {
		p.Options = pb.Options.Body
	}

	if pb.Arguments != nil {
		args, diags := translateArguments(pb.Arguments.Body)
		if diags.HasErrors() {
			return nil, generr.Configuration(diags, "property %q: invalid arguments", pb.Name)
		}
		p.Arguments = args
	}

	for _, wv := range pb.WeightedValues {
		p.WeightedValues = append(p.WeightedValues, &config.WeightedValue{Weight: wv.Weight, Value: wv.Value})
	}
	for _, wr := range pb.WeightedRanges {
		p.WeightedRanges = append(p.WeightedRanges, &config.WeightedRange{Weight: wr.Weight, Min: wr.Min, Max: wr.Max})
	}

	return p, nil
}

// translateArguments reads an arguments body whose attributes reference
// other properties, either one (`a = property.x`) or several
// (`a = [property.x, property.y]`). Arguments keep their source order.
func translateArguments(body hcl.Body) ([]*config.Argument, hcl.Diagnostics) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	sorted := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		sorted = append(sorted, attr)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Range.Start.Byte < sorted[j].Range.Start.Byte
	})

	args := make([]*config.Argument, 0, len(sorted))
	for _, attr := range sorted {
		refs, refDiags := propertyReferences(attr)
		diags = append(diags, refDiags...)
		args = append(args, &config.Argument{Name: attr.Name, Properties: refs})
	}
	return args, diags
}

// propertyReferences extracts the property names an argument expression
// refers to, in source order.
func propertyReferences(attr *hcl.Attribute) ([]string, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var refs []string

	for _, traversal := range attr.Expr.Variables() {
		if traversal.RootName() != propertyRoot || len(traversal) < 2 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid property reference",
				Detail:   fmt.Sprintf("Argument %q must reference properties as %s.<name>.", attr.Name, propertyRoot),
				Subject:  traversal.SourceRange().Ptr(),
			})
			continue
		}
		step, ok := traversal[1].(hcl.TraverseAttr)
		if !ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid property reference",
				Detail:   fmt.Sprintf("Argument %q must name a property after %q.", attr.Name, propertyRoot),
				Subject:  traversal.SourceRange().Ptr(),
			})
			continue
		}
		refs = append(refs, step.Name)
	}

	if len(refs) == 0 && !diags.HasErrors() {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing property reference",
			Detail:   fmt.Sprintf("Argument %q does not reference any property.", attr.Name),
			Subject:  attr.Expr.Range().Ptr(),
		})
	}
	return refs, diags
}
