package registry

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// Module is the interface that all provider modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds every registered provider factory for a single application
// instance.
type Registry struct {
	providers map[string]*RegisteredProvider
}

// New creates a Registry and registers the given modules into it.
func New(modules ...Module) *Registry {
	r := &Registry{
		providers: make(map[string]*RegisteredProvider),
	}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterProvider registers a provider factory under name. Registering the
// same name twice is a programming error and panics.
func (r *Registry) RegisterProvider(name string, p *RegisteredProvider) {
	if _, exists := r.providers[name]; exists {
		panic(fmt.Sprintf("provider with name '%s' already registered", name))
	}
	slog.Debug("Registering provider.", "name", name)
	r.providers[name] = p
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (*RegisteredProvider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Names returns every registered provider name, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.providers))
}
