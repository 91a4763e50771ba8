package provider

import (
	"context"

	"github.com/zclconf/go-cty/cty"
	"golang.org/x/exp/rand"
)

// Randomizer is an embeddable, one-shot seeded random source.
type Randomizer struct {
	rng *rand.Rand
}

// InitRandomizer seeds the random source. A second call fails with
// ErrRandomizerInitialized.
func (r *Randomizer) InitRandomizer(seed uint64) error {
	if r.rng != nil {
		return ErrRandomizerInitialized
	}
	r.rng = rand.New(rand.NewSource(seed))
	return nil
}

// Rand returns the seeded source, or ErrRandomizerMissing before
// InitRandomizer was called.
func (r *Randomizer) Rand() (*rand.Rand, error) {
	if r.rng == nil {
		return nil, ErrRandomizerMissing
	}
	return r.rng, nil
}

// Base bundles the defaults most providers share: a Randomizer, a no-op
// Load and no supported arguments.
type Base struct {
	Randomizer
}

// Load does nothing.
func (Base) Load(context.Context, PropertyInfo, int) error { return nil }

// SupportedArguments declares no arguments.
func (Base) SupportedArguments() map[string]cty.Type { return nil }
