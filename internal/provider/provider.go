package provider

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/zclconf/go-cty/cty"
)

// MaxAttempts bounds how many candidates a provider draws before it gives up
// on finding a value outside the exclusion set.
const MaxAttempts = 1000

var (
	// ErrNotSupported is returned by providers asked for an operation they
	// cannot perform, e.g. a ranged value from a provider without an order.
	ErrNotSupported = errors.New("operation not supported by provider")

	// ErrRandomizerInitialized is returned when InitRandomizer is called a
	// second time on the same provider instance.
	ErrRandomizerInitialized = errors.New("randomizer already initialized")

	// ErrRandomizerMissing is returned when a provider is asked for a random
	// value before InitRandomizer was called.
	ErrRandomizerMissing = errors.New("randomizer not initialized")

	// ErrExhausted is returned when no value outside the exclusion set could
	// be produced within MaxAttempts draws.
	ErrExhausted = errors.New("no value left to generate")

	// ErrEmptyRange is returned for a range whose bounds enclose no value.
	ErrEmptyRange = errors.New("range holds no values")

	// ErrInvalidID is returned by GetByID for identifiers the provider
	// cannot turn back into a value.
	ErrInvalidID = errors.New("invalid value id")
)

// PropertyInfo is the read-only view of a property handed to providers.
type PropertyInfo interface {
	ID() string
	IsUnique() bool
	IsNotNull() bool
}

// Provider manufactures values of a single type.
type Provider interface {
	// Type is the cty.Type of every value this provider produces.
	Type() cty.Type

	// GetByID turns a stable identifier back into a value. It is the inverse
	// of GetValueID.
	GetByID(id string) (cty.Value, error)

	// GetValueID returns the stable identifier of v.
	GetValueID(v cty.Value) (string, error)

	// Get returns a random value that is not a member of excluded.
	Get(ctx *Context, excluded *ValueSet) (cty.Value, error)

	// SupportedArguments declares the argument names the provider consumes
	// and the type each argument's upstream values must have. A nil map
	// means the provider accepts no arguments.
	SupportedArguments() map[string]cty.Type

	// Load is called once per generation run before any value is requested.
	Load(ctx context.Context, p PropertyInfo, rowCount int) error

	// InitRandomizer seeds the provider's random source. It must be called
	// exactly once per provider instance.
	InitRandomizer(seed uint64) error
}

// Ranged is implemented by providers whose values have an order, which lets
// them serve weighted range buckets.
type Ranged interface {
	// GetRanged returns a value in the half-open range [min, max) that is
	// not a member of excluded.
	GetRanged(ctx *Context, min, max cty.Value, excluded *ValueSet) (cty.Value, error)

	// GetExcludingRanges returns a value outside every range in ranges and
	// not a member of excluded.
	GetExcludingRanges(ctx *Context, ranges []Range, excluded *ValueSet) (cty.Value, error)
}

// RangeValidator is implemented by ranged providers that can reject a range
// before any value is drawn from it, e.g. one whose min is not below its max
// once snapped to the provider's grid.
type RangeValidator interface {
	ValidateRange(min, max cty.Value) error
}

// Range is a half-open [Min, Max) range of provider values.
type Range struct {
	Min cty.Value
	Max cty.Value
}
