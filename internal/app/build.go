package app

import (
	"context"

	"github.com/vk/datagridgo/internal/config"
	"github.com/vk/datagridgo/internal/ctxlog"
	"github.com/vk/datagridgo/internal/engine"
	"github.com/vk/datagridgo/internal/generr"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/vk/datagridgo/internal/sink"
	"github.com/zclconf/go-cty/cty"
)

// buildGenerator turns a loaded design into a generator with one freshly
// built provider per property.
func (a *App) buildGenerator(ctx context.Context, model *config.Model, conv config.Converter, seed uint64) (*engine.Generator, error) {
	logger := ctxlog.FromContext(ctx)

	g := engine.New(engine.WithSeed(seed), engine.WithObserver(engine.LogObserver{}))
	for _, prop := range model.Properties {
		p, err := a.registry.Build(ctx, prop.Provider, func(target any) error {
			return conv.DecodeOptions(ctx, prop.Options, target)
		})
		if err != nil {
			return nil, generr.Configuration(err, "property %q", prop.Name)
		}

		opts, err := propertyOptions(prop, p, conv)
		if err != nil {
			return nil, generr.Configuration(err, "property %q", prop.Name)
		}
		if err := g.Register(engine.NewProperty(prop.Name, p, opts...)); err != nil {
			return nil, err
		}
		logger.Debug("Property built.", "property", prop.Name, "provider", prop.Provider)
	}
	return g, nil
}

func propertyOptions(prop *config.Property, p provider.Provider, conv config.Converter) ([]engine.PropertyOption, error) {
	var opts []engine.PropertyOption
	if prop.Unique {
		opts = append(opts, engine.Unique())
	}
	if prop.NotNull {
		opts = append(opts, engine.NotNull())
	}
	if prop.Type != cty.NilType && !prop.Type.Equals(cty.DynamicPseudoType) {
		opts = append(opts, engine.WithType(prop.Type))
	}
	for _, arg := range prop.Arguments {
		opts = append(opts, engine.WithArgument(arg.Name, arg.Properties...))
	}

	if len(prop.WeightedValues) > 0 {
		values := make([]engine.WeightedValue, 0, len(prop.WeightedValues))
		for i, wv := range prop.WeightedValues {
			v, err := materialize(p, conv, wv.Value)
			if err != nil {
				return nil, generr.Configuration(err, "weighted value %d", i)
			}
			values = append(values, engine.WeightedValue{Weight: wv.Weight, Value: v})
		}
		opts = append(opts, engine.WithWeightedValues(values...))
	}

	if len(prop.WeightedRanges) > 0 {
		ranges := make([]engine.WeightedRange, 0, len(prop.WeightedRanges))
		for i, wr := range prop.WeightedRanges {
			lo, err := materialize(p, conv, wr.Min)
			if err != nil {
				return nil, generr.Configuration(err, "weighted range %d min", i)
			}
			hi, err := materialize(p, conv, wr.Max)
			if err != nil {
				return nil, generr.Configuration(err, "weighted range %d max", i)
			}
			ranges = append(ranges, engine.WeightedRange{Weight: wr.Weight, Min: lo, Max: hi})
		}
		opts = append(opts, engine.WithWeightedRanges(ranges...))
	}
	return opts, nil
}

// materialize turns a design literal into a provider value by way of its
// id. A null literal becomes a null of the provider's type.
func materialize(p provider.Provider, conv config.Converter, literal cty.Value) (cty.Value, error) {
	if literal.IsNull() {
		return cty.NullVal(p.Type()), nil
	}
	id, err := conv.LiteralID(literal)
	if err != nil {
		return cty.NilVal, err
	}
	return p.GetByID(id)
}

// columns lists the generator's properties in registration order.
func columns(g *engine.Generator) []sink.Column {
	props := g.Properties()
	cols := make([]sink.Column, len(props))
	for i, p := range props {
		cols[i] = sink.Column{Name: p.ID(), Type: p.Type()}
	}
	return cols
}
