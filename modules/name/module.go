// Package name provides person names picked from weighted tables.
package name

import (
	"context"
	_ "embed"

	"github.com/cockroachdb/errors"
	"github.com/vk/datagridgo/internal/ctxlog"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/vk/datagridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"
)

//go:embed names.yaml
var namesYAML []byte

// Module implements the registry.Module interface for this package.
type Module struct{}

// Options defines the attributes of the 'options' block.
type Options struct {
	// Kind is one of first, last or full.
	Kind string `hcl:"kind,optional"`
}

// Register registers the provider with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider("name", &registry.RegisteredProvider{
		Description: "Person names; kind selects first, last or full.",
		NewOptions:  func() any { return &Options{Kind: "full"} },
		New: func(opts any) (provider.Provider, error) {
			kind := opts.(*Options).Kind
			switch kind {
			case "first", "last", "full":
				return &Provider{kind: kind}, nil
			}
			return nil, errors.Newf("unknown kind %q: expected first, last or full", kind)
		},
	})
}

type entry struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

type tables struct {
	First []entry `yaml:"first"`
	Last  []entry `yaml:"last"`
}

// weighted picks entries proportionally to their weight.
type weighted struct {
	entries []entry
	total   float64
}

func newWeighted(entries []entry) (*weighted, error) {
	w := &weighted{entries: entries}
	for _, e := range entries {
		if e.Weight <= 0 {
			return nil, errors.Newf("name %q has non-positive weight %g", e.Name, e.Weight)
		}
		w.total += e.Weight
	}
	if len(entries) == 0 {
		return nil, errors.New("name table is empty")
	}
	return w, nil
}

func (w *weighted) pick(rng *rand.Rand) string {
	target := rng.Float64() * w.total
	var sum float64
	for _, e := range w.entries {
		sum += e.Weight
		if sum > target {
			return e.Name
		}
	}
	return w.entries[len(w.entries)-1].Name
}

// Provider produces names. Its tables are parsed on Load.
type Provider struct {
	provider.Randomizer
	kind        string
	first, last *weighted
}

var _ provider.Provider = (*Provider)(nil)

func (p *Provider) Type() cty.Type { return cty.String }

func (p *Provider) SupportedArguments() map[string]cty.Type { return nil }

func (p *Provider) Load(ctx context.Context, prop provider.PropertyInfo, _ int) error {
	if p.first != nil {
		return nil
	}
	var t tables
	if err := yaml.Unmarshal(namesYAML, &t); err != nil {
		return errors.Wrap(err, "parsing name tables")
	}
	var err error
	if p.first, err = newWeighted(t.First); err != nil {
		return errors.Wrap(err, "first names")
	}
	if p.last, err = newWeighted(t.Last); err != nil {
		return errors.Wrap(err, "last names")
	}
	ctxlog.FromContext(ctx).Debug("Name tables loaded.", "property", prop.ID(), "first", len(t.First), "last", len(t.Last))
	return nil
}

// GetByID accepts any non-empty name.
func (p *Provider) GetByID(id string) (cty.Value, error) {
	if id == "" {
		return cty.NilVal, errors.Mark(errors.New("empty name"), provider.ErrInvalidID)
	}
	return cty.StringVal(id), nil
}

func (p *Provider) GetValueID(v cty.Value) (string, error) {
	return provider.StringID(v)
}

func (p *Provider) Get(_ *provider.Context, excluded *provider.ValueSet) (cty.Value, error) {
	rng, err := p.Rand()
	if err != nil {
		return cty.NilVal, err
	}
	if p.first == nil {
		return cty.NilVal, errors.New("name tables not loaded")
	}
	return provider.Draw(p, excluded, func() (cty.Value, error) {
		switch p.kind {
		case "first":
			return cty.StringVal(p.first.pick(rng)), nil
		case "last":
			return cty.StringVal(p.last.pick(rng)), nil
		}
		return cty.StringVal(p.first.pick(rng) + " " + p.last.pick(rng)), nil
	})
}
