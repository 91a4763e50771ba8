package engine

import (
	"context"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/vk/datagridgo/internal/ctxlog"
	"github.com/vk/datagridgo/internal/generr"
)

// Generator produces rows from a set of registered properties. A Generator
// is not safe for concurrent use; each Generate call runs on the calling
// goroutine.
type Generator struct {
	seed      uint64
	props     []*Property
	byID      map[string]*Property
	observers observers
	// seeded records the properties whose provider already received its
	// random seed. Providers are seeded once, on the first run that needs them.
	seeded map[string]bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the seed every provider and distribution plan is derived
// from. Two generators with the same seed and the same properties produce
// the same rows.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.seed = seed }
}

// WithObserver adds an observer that is notified during generation.
func WithObserver(o Observer) Option {
	return func(g *Generator) {
		if o != nil {
			g.observers = append(g.observers, o)
		}
	}
}

// New creates a Generator with no properties.
func New(opts ...Option) *Generator {
	g := &Generator{
		byID:   make(map[string]*Property),
		seeded: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Register adds a property. Property ids must be non-empty and unique.
func (g *Generator) Register(p *Property) error {
	if p == nil {
		return generr.Configurationf("cannot register a nil property")
	}
	if p.id == "" {
		return generr.Configurationf("property id must not be empty")
	}
	if _, exists := g.byID[p.id]; exists {
		return generr.Configurationf("property %q is already registered", p.id)
	}
	g.props = append(g.props, p)
	g.byID[p.id] = p
	return nil
}

// Properties returns the registered properties in registration order.
func (g *Generator) Properties() []*Property {
	return append([]*Property(nil), g.props...)
}

// Columns returns the registered property ids in registration order.
func (g *Generator) Columns() []string {
	ids := make([]string, len(g.props))
	for i, p := range g.props {
		ids[i] = p.id
	}
	return ids
}

// Order validates the registered properties and returns their ids in the
// order they are generated within a row.
func (g *Generator) Order() ([]string, error) {
	order, err := g.validate()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(order))
	for i, p := range order {
		ids[i] = p.id
	}
	return ids, nil
}

// Validate runs every check Generate performs before touching a provider's
// Load hook. It does not check limits that depend on the row count.
func (g *Generator) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Validating properties.", "count", len(g.props))
	if _, err := g.validate(); err != nil {
		return err
	}
	logger.Debug("Properties are valid.")
	return nil
}

// Generate produces rowCount rows. Every registered property is validated
// and ordered first; a configuration problem aborts before any provider is
// loaded. Any failure aborts the whole run and no rows are returned.
func (g *Generator) Generate(ctx context.Context, rowCount int) ([]Row, error) {
	logger := ctxlog.FromContext(ctx)

	if rowCount < 0 {
		return nil, generr.Configurationf("row count must not be negative, got %d", rowCount)
	}

	order, err := g.validate()
	if err != nil {
		return nil, err
	}
	if err := g.validateQuotas(rowCount); err != nil {
		return nil, err
	}
	if rowCount == 0 {
		logger.Info("Nothing to generate, row count is 0.")
		return []Row{}, nil
	}

	logger.Info("▶️ Starting generation run.", "properties", len(order), "rows", rowCount)
	r := newRun(g, order, rowCount)
	if err := r.prepare(ctx); err != nil {
		return nil, err
	}
	rows, err := r.generate(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("✅ Finished generation run.", "rows", len(rows))
	return rows, nil
}

// seedFor derives the seed of one property's random source.
func (g *Generator) seedFor(propertyID, purpose string) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], g.seed)

	d := xxhash.New()
	_, _ = d.Write(buf[:])
	_, _ = d.WriteString(purpose)
	_, _ = d.WriteString(propertyID)
	return d.Sum64()
}
