package engine

import (
	"context"
	"log/slog"

	"github.com/vk/datagridgo/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Row maps property ids to the values generated for one row.
type Row map[string]cty.Value

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Observer receives the lifecycle notifications of a generation run.
// Notifications are delivered synchronously, in order, on the goroutine
// running Generate. A Property exposes only its metadata; its provider is
// not reachable from an observer, so observing never advances a seeded
// random stream.
type Observer interface {
	PropertyLoadStarting(ctx context.Context, p *Property)
	PropertyLoadFinished(ctx context.Context, p *Property)
	ValueGenerated(ctx context.Context, p *Property, rowIndex int, v cty.Value)
	RowGenerated(ctx context.Context, rowIndex int, row Row)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnPropertyLoadStarting func(ctx context.Context, p *Property)
	OnPropertyLoadFinished func(ctx context.Context, p *Property)
	OnValueGenerated       func(ctx context.Context, p *Property, rowIndex int, v cty.Value)
	OnRowGenerated         func(ctx context.Context, rowIndex int, row Row)
}

func (f ObserverFuncs) PropertyLoadStarting(ctx context.Context, p *Property) {
	if f.OnPropertyLoadStarting != nil {
		f.OnPropertyLoadStarting(ctx, p)
	}
}

func (f ObserverFuncs) PropertyLoadFinished(ctx context.Context, p *Property) {
	if f.OnPropertyLoadFinished != nil {
		f.OnPropertyLoadFinished(ctx, p)
	}
}

func (f ObserverFuncs) ValueGenerated(ctx context.Context, p *Property, rowIndex int, v cty.Value) {
	if f.OnValueGenerated != nil {
		f.OnValueGenerated(ctx, p, rowIndex, v)
	}
}

func (f ObserverFuncs) RowGenerated(ctx context.Context, rowIndex int, row Row) {
	if f.OnRowGenerated != nil {
		f.OnRowGenerated(ctx, rowIndex, row)
	}
}

// LogObserver writes every notification to the context logger at debug
// level.
type LogObserver struct{}

func (LogObserver) PropertyLoadStarting(ctx context.Context, p *Property) {
	ctxlog.FromContext(ctx).Debug("Loading property.", "property", p.ID())
}

func (LogObserver) PropertyLoadFinished(ctx context.Context, p *Property) {
	ctxlog.FromContext(ctx).Debug("Property loaded.", "property", p.ID())
}

// ValueGenerated runs once per row and property, so it returns before
// building any attribute unless debug records are kept.
func (LogObserver) ValueGenerated(ctx context.Context, p *Property, rowIndex int, v cty.Value) {
	logger := ctxlog.FromContext(ctx)
	if !logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	logger.Debug("Value generated.", "property", p.ID(), "row", rowIndex, "value", logValue{v})
}

func (LogObserver) RowGenerated(ctx context.Context, rowIndex int, row Row) {
	ctxlog.FromContext(ctx).Debug("Row generated.", "row", rowIndex, "columns", len(row))
}

// logValue defers formatting a value until a handler writes the record.
type logValue struct{ v cty.Value }

func (l logValue) LogValue() slog.Value { return slog.StringValue(formatValue(l.v)) }

// formatValue renders a value for log output.
func formatValue(v cty.Value) string {
	switch {
	case !v.IsKnown():
		return "(unknown)"
	case v.IsNull():
		return "null"
	case v.Type() == cty.String:
		return v.AsString()
	case v.Type() == cty.Number:
		return v.AsBigFloat().Text('g', -1)
	case v.Type() == cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	default:
		return v.GoString()
	}
}

// observers fans notifications out to several observers. Each observer gets
// its own copy of a generated row.
type observers []Observer

func (o observers) PropertyLoadStarting(ctx context.Context, p *Property) {
	for _, obs := range o {
		obs.PropertyLoadStarting(ctx, p)
	}
}

func (o observers) PropertyLoadFinished(ctx context.Context, p *Property) {
	for _, obs := range o {
		obs.PropertyLoadFinished(ctx, p)
	}
}

func (o observers) ValueGenerated(ctx context.Context, p *Property, rowIndex int, v cty.Value) {
	for _, obs := range o {
		obs.ValueGenerated(ctx, p, rowIndex, v)
	}
}

func (o observers) RowGenerated(ctx context.Context, rowIndex int, row Row) {
	for _, obs := range o {
		obs.RowGenerated(ctx, rowIndex, row.Clone())
	}
}
