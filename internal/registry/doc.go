// Package registry provides the central "glue" for the provider system.
//
// The Registry maps the provider names used in design files (e.g. "integer")
// to the compiled Go factories that build them. Each factory declares an
// options struct that the design loader decodes the property's options block
// into before the provider is constructed.
//
// During application startup, the registry is populated by every Module and
// then validated, so a malformed options struct fails at startup rather than
// in the middle of a run.
package registry
