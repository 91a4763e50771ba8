// Package provider defines the capability contract between the generation
// engine and the pluggable value providers that manufacture values.
//
// A provider produces values of exactly one cty.Type. The engine only ever
// talks to providers through the Provider interface (and the optional Ranged
// interface for weighted ranges), so the row loop works over type-erased
// cty.Values while each provider stays free to use strongly typed Go values
// internally.
//
// Providers own all of their state. Static tables, caches and random sources
// are populated per instance during Load and InitRandomizer, never shared
// between instances.
//
// The helpers in this package (Base, Randomizer, ValueSet, Draw, Interval)
// cover the parts every concrete provider needs: seeded randomness with a
// one-shot initializer, exclusion sets keyed by stable value ids, bounded
// retries and interval arithmetic for complement sampling.
package provider
