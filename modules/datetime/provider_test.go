package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/vk/datagridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

const day = "2006-01-02"

func newDays(t *testing.T, from, to string) *Provider {
	t.Helper()
	f, err := time.Parse(day, from)
	require.NoError(t, err)
	e, err := time.Parse(day, to)
	require.NoError(t, err)
	p, err := New(f, e, 24*time.Hour, day)
	require.NoError(t, err)
	require.NoError(t, p.InitRandomizer(5))
	return p
}

func TestGet_DaysInDomain(t *testing.T) {
	t.Parallel()
	p := newDays(t, "2024-01-01", "2024-02-01")

	seen := provider.NewValueSet()
	for range 31 {
		v, err := p.Get(nil, seen)
		require.NoError(t, err)
		s := v.AsString()
		assert.True(t, s >= "2024-01-01" && s < "2024-02-01", s)
		require.True(t, seen.Add(s))
	}
	_, err := p.Get(nil, seen)
	assert.ErrorIs(t, err, provider.ErrExhausted)
}

func TestRanged(t *testing.T) {
	t.Parallel()
	p := newDays(t, "2024-01-01", "2025-01-01")

	for range 100 {
		v, err := p.GetRanged(nil, cty.StringVal("2024-06-01"), cty.StringVal("2024-06-08"), nil)
		require.NoError(t, err)
		s := v.AsString()
		assert.True(t, s >= "2024-06-01" && s < "2024-06-08", s)
	}

	ranges := []provider.Range{{Min: cty.StringVal("2024-01-01"), Max: cty.StringVal("2024-12-31")}}
	v, err := p.GetExcludingRanges(nil, ranges, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", v.AsString())

	_, err = p.GetRanged(nil, cty.StringVal("June"), cty.StringVal("2024-06-08"), nil)
	assert.ErrorContains(t, err, "range min")
}

func TestValidateRange(t *testing.T) {
	t.Parallel()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p, err := New(from, from.AddDate(0, 1, 0), 24*time.Hour, time.RFC3339)
	require.NoError(t, err)

	require.NoError(t, p.ValidateRange(cty.StringVal("2024-01-05T00:00:00Z"), cty.StringVal("2024-01-06T00:00:00Z")))

	err = p.ValidateRange(cty.StringVal("2024-01-05T01:00:00Z"), cty.StringVal("2024-01-05T23:00:00Z"))
	assert.ErrorIs(t, err, provider.ErrEmptyRange, "no midnight lies between the bounds")
	assert.ErrorContains(t, err, "with step 24h0m0s")

	assert.ErrorIs(t, p.ValidateRange(cty.StringVal("2024-01-09T00:00:00Z"), cty.StringVal("2024-01-02T00:00:00Z")), provider.ErrEmptyRange)
	assert.Error(t, p.ValidateRange(cty.StringVal("tomorrow"), cty.StringVal("2024-01-02T00:00:00Z")))
}

func TestIDs(t *testing.T) {
	t.Parallel()
	p := newDays(t, "2024-01-01", "2025-01-01")

	v, err := p.GetByID("2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", v.AsString())

	_, err = p.GetByID("04/03/2024")
	assert.ErrorIs(t, err, provider.ErrInvalidID)
}

func TestModule(t *testing.T) {
	t.Parallel()
	reg, ok := registry.New(&Module{}).Lookup("datetime")
	require.True(t, ok)

	p, err := reg.New(reg.NewOptions())
	require.NoError(t, err)
	require.NoError(t, p.InitRandomizer(1))
	v, err := p.Get(nil, nil)
	require.NoError(t, err)
	_, err = time.Parse(time.RFC3339, v.AsString())
	assert.NoError(t, err)

	_, err = reg.New(&Options{From: "2024-01-02", To: "2024-01-01", Layout: day, Step: "24h"})
	assert.ErrorContains(t, err, "must be before")
	_, err = reg.New(&Options{From: "2024-01-01", To: "2024-01-02", Layout: day, Step: "daily"})
	assert.ErrorContains(t, err, "parsing step")
	_, err = reg.New(&Options{From: "2024-01-01", To: "2024-01-02", Layout: day, Step: "-1h"})
	assert.ErrorContains(t, err, "step must be positive")
}
