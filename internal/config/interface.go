package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific design loader.
type Loader interface {
	// Load reads the design from the given paths, translates it into the
	// format-agnostic model, and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter is the interface for a format-specific data binding and type
// conversion implementation. It acts as the bridge between the raw design
// and the Go types used by providers.
type Converter interface {
	// DecodeOptions decodes a property's raw options body into a provider's
	// options struct, applying defaults and validations. A nil body decodes
	// as an empty one.
	DecodeOptions(ctx context.Context, body hcl.Body, target any) error

	// LiteralID turns a literal from the design into the string id a
	// provider's GetByID understands.
	LiteralID(v cty.Value) (string, error)
}
