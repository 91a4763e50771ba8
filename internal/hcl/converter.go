package hcl

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/datagridgo/internal/config"
	"github.com/vk/datagridgo/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Converter is the HCL-specific implementation of the config.Converter interface.
type Converter struct{}

var _ config.Converter = (*Converter)(nil)

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{}
}

// DecodeOptions decodes an options body into target, a pointer to a struct
// carrying `hcl` tags.
func (c *Converter) DecodeOptions(ctx context.Context, body hcl.Body, target any) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting HCL options decoding.", "target", fmt.Sprintf("%T", target))

	if body == nil {
		body = hcl.EmptyBody()
	}
	if diags := gohcl.DecodeBody(body, nil, target); diags.HasErrors() {
		return diags
	}

	logger.Debug("Finished HCL options decoding successfully.")
	return nil
}

// LiteralID renders a primitive literal as a string id: strings as they
// are, numbers in their shortest decimal form, bools as true or false.
func (c *Converter) LiteralID(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", errors.New("literal must not be null")
	}
	if !v.IsWhollyKnown() {
		return "", errors.New("literal must be known")
	}
	if !v.Type().IsPrimitiveType() {
		return "", errors.Newf("literal must be a string, number or bool, got %s", v.Type().FriendlyName())
	}

	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", errors.Wrapf(err, "cannot convert %s literal to an id", v.Type().FriendlyName())
	}
	return s.AsString(), nil
}
