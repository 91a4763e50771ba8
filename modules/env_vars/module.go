// Package env_vars provides a value read from the process environment once
// per run. It is meant for weighted values and constant columns such as a
// tenant or build id.
package env_vars

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/vk/datagridgo/internal/ctxlog"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/vk/datagridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Options defines the attributes of the 'options' block.
type Options struct {
	Name    string `hcl:"name"`
	Default string `hcl:"default,optional"`
}

// Register registers the provider with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider("env", &registry.RegisteredProvider{
		Description: "The value of environment variable name, or default when it is unset.",
		NewOptions:  func() any { return &Options{} },
		New: func(opts any) (provider.Provider, error) {
			o := opts.(*Options)
			if o.Name == "" {
				return nil, errors.New("name must not be empty")
			}
			return &Provider{name: o.Name, def: o.Default}, nil
		},
	})
}

// Provider returns the same string for every row.
type Provider struct {
	provider.Base
	name, def string
	value     string
	loaded    bool
}

var _ provider.Provider = (*Provider)(nil)

func (p *Provider) Type() cty.Type { return cty.String }

// Load reads the variable. An unset variable without a default fails.
func (p *Provider) Load(ctx context.Context, prop provider.PropertyInfo, _ int) error {
	v, ok := os.LookupEnv(p.name)
	if !ok {
		if p.def == "" {
			return errors.Newf("environment variable %s is not set", p.name)
		}
		v = p.def
	}
	p.value, p.loaded = v, true
	ctxlog.FromContext(ctx).Debug("Environment value loaded.", "property", prop.ID(), "variable", p.name, "set", ok)
	return nil
}

func (p *Provider) GetByID(id string) (cty.Value, error) {
	return cty.StringVal(id), nil
}

func (p *Provider) GetValueID(v cty.Value) (string, error) {
	return provider.StringID(v)
}

func (p *Provider) Get(_ *provider.Context, excluded *provider.ValueSet) (cty.Value, error) {
	if !p.loaded {
		return cty.NilVal, errors.Newf("environment variable %s not loaded", p.name)
	}
	if excluded.Has(p.value) {
		return cty.NilVal, provider.ErrExhausted
	}
	return cty.StringVal(p.value), nil
}
