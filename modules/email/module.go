// Package email provides e-mail addresses, built from name arguments when
// they are bound.
package email

import (
	"strconv"
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
	Domains []string `hcl:"domains,optional"`
}

// Register registers the provider with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider("email", &registry.RegisteredProvider{
		Description: "E-mail addresses; arguments first_name and last_name shape the local part.",
		NewOptions:  func() any { return &Options{Domains: []string{"example.com", "example.org", "example.net"}} },
		New: func(opts any) (provider.Provider, error) {
			return m.newProvider(opts.(*Options).Domains)
		},
	})
}

func (m *Module) newProvider(domains []string) (*Provider, error) {
	if len(domains) == 0 {
		return nil, errors.New("domains must not be empty")
	}
	for _, d := range domains {
		if d == "" || strings.ContainsAny(d, "@ ") {
			return nil, errors.Newf("invalid domain %q", d)
		}
	}
	return &Provider{domains: domains}, nil
}

const letters = "abcdefghijklmnopqrstuvwxyz"

// Provider produces addresses. With names bound the first candidate is
// first.last@domain; later candidates append a number.
type Provider struct {
	provider.Base
	domains []string
}

var _ provider.Provider = (*Provider)(nil)

func (p *Provider) Type() cty.Type { return cty.String }

func (p *Provider) SupportedArguments() map[string]cty.Type {
	return map[string]cty.Type{
		"first_name": cty.String,
		"last_name":  cty.String,
	}
}

func (p *Provider) GetByID(id string) (cty.Value, error) {
	local, domain, ok := strings.Cut(id, "@")
	if !ok || local == "" || domain == "" {
		return cty.NilVal, errors.Mark(errors.Newf("%q is not an e-mail address", id), provider.ErrInvalidID)
	}
	return cty.StringVal(id), nil
}

func (p *Provider) GetValueID(v cty.Value) (string, error) {
	return provider.StringID(v)
}

func (p *Provider) Get(ctx *provider.Context, excluded *provider.ValueSet) (cty.Value, error) {
	rng, err := p.Rand()
	if err != nil {
		return cty.NilVal, err
	}

	var parts []string
	for _, arg := range []string{"first_name", "last_name"} {
		for _, v := range ctx.Arguments(arg) {
			if provider.IsEmpty(v) {
				continue
			}
			if s := normalize(v.AsString()); s != "" {
				parts = append(parts, s)
			}
		}
	}
	base := strings.Join(parts, ".")

	attempt := 0
	return provider.Draw(p, excluded, func() (cty.Value, error) {
		local := base
		switch {
		case local == "":
			local = randomWord(rng, 8)
		case attempt > 0:
			local += strconv.Itoa(1 + rng.Intn(attempt*100))
		}
		attempt++
		domain := p.domains[rng.Intn(len(p.domains))]
		return cty.StringVal(local + "@" + domain), nil
	})
}

// normalize lower-cases s and keeps only ASCII letters and digits.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return -1
	}, s)
}

func randomWord(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rng.Intn(len(letters))]
	}
	return string(b)
}
