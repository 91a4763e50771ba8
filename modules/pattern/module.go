// Package pattern provides strings shaped by a template: '#' is a digit,
// '?' an upper-case letter, '*' a digit or upper-case letter, and a
// backslash makes the next character literal.
package pattern

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/vk/datagridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/exp/rand"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Options defines the attributes of the 'options' block.
type Options struct {
	Pattern string `hcl:"pattern,optional"`
}

// Register registers the provider with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider("pattern", &registry.RegisteredProvider{
		Description: "Strings from a template: # digit, ? letter, * either, \\ escapes.",
		NewOptions:  func() any { return &Options{Pattern: "????-####"} },
		New: func(opts any) (provider.Provider, error) {
			return New(opts.(*Options).Pattern)
		},
	})
}

const (
	digits   = "0123456789"
	upper    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	alphanum = digits + upper
)

// token is one position of a template: a literal, or a class to draw from.
type token struct {
	literal rune
	class   string
}

// Provider renders its template with random characters.
type Provider struct {
	provider.Base
	tokens []token
}

var _ provider.Provider = (*Provider)(nil)

// New compiles a template.
func New(pattern string) (*Provider, error) {
	if pattern == "" {
		return nil, errors.New("pattern must not be empty")
	}
	var tokens []token
	escaped := false
	for _, r := range pattern {
		if escaped {
			tokens = append(tokens, token{literal: r})
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '#':
			tokens = append(tokens, token{class: digits})
		case '?':
			tokens = append(tokens, token{class: upper})
		case '*':
			tokens = append(tokens, token{class: alphanum})
		default:
			tokens = append(tokens, token{literal: r})
		}
	}
	if escaped {
		return nil, errors.Newf("pattern %q ends with a dangling escape", pattern)
	}
	return &Provider{tokens: tokens}, nil
}

func (p *Provider) Type() cty.Type { return cty.String }

// GetByID accepts any non-empty string, so weighted values need not match
// the template.
func (p *Provider) GetByID(id string) (cty.Value, error) {
	if id == "" {
		return cty.NilVal, errors.Mark(errors.New("empty value"), provider.ErrInvalidID)
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
	return provider.Draw(p, excluded, func() (cty.Value, error) {
		return cty.StringVal(p.render(rng)), nil
	})
}

func (p *Provider) render(rng *rand.Rand) string {
	var b strings.Builder
	for _, t := range p.tokens {
		if t.class == "" {
			b.WriteRune(t.literal)
			continue
		}
		b.WriteByte(t.class[rng.Intn(len(t.class))])
	}
	return b.String()
}
