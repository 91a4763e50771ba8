package provider

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/exp/rand"
)

// digitProvider hands out the digits 0-9 in order, wrapping around.
type digitProvider struct {
	Base
	next int
}

func (p *digitProvider) Type() cty.Type { return cty.Number }

func (p *digitProvider) GetByID(id string) (cty.Value, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return cty.NilVal, ErrInvalidID
	}
	return cty.NumberIntVal(int64(n)), nil
}

func (p *digitProvider) GetValueID(v cty.Value) (string, error) {
	bf := v.AsBigFloat()
	n, _ := bf.Int64()
	return strconv.FormatInt(n, 10), nil
}

func (p *digitProvider) Get(_ *Context, excluded *ValueSet) (cty.Value, error) {
	return Draw(p, excluded, func() (cty.Value, error) {
		v := cty.NumberIntVal(int64(p.next % 10))
		p.next++
		return v, nil
	})
}

func TestRandomizer(t *testing.T) {
	var r Randomizer

	_, err := r.Rand()
	assert.ErrorIs(t, err, ErrRandomizerMissing)

	require.NoError(t, r.InitRandomizer(7))
	rng, err := r.Rand()
	require.NoError(t, err)
	require.NotNil(t, rng)

	assert.ErrorIs(t, r.InitRandomizer(7), ErrRandomizerInitialized)
}

func TestRandomizer_SameSeedSameSequence(t *testing.T) {
	var a, b Randomizer
	require.NoError(t, a.InitRandomizer(42))
	require.NoError(t, b.InitRandomizer(42))
	ra, _ := a.Rand()
	rb, _ := b.Rand()
	for range 20 {
		assert.Equal(t, ra.Uint64(), rb.Uint64())
	}
}

func TestValueSet(t *testing.T) {
	var nilSet *ValueSet
	assert.False(t, nilSet.Has("a"))
	assert.Equal(t, 0, nilSet.Len())
	assert.Equal(t, 0, nilSet.Clone().Len())
	assert.PanicsWithValue(t, "provider: Add on a nil ValueSet", func() { nilSet.Add("a") })

	s := NewValueSet("a", "b")
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))
	assert.True(t, s.Add("c"))
	assert.False(t, s.Add("c"))
	assert.Equal(t, 3, s.Len())

	c := s.Clone()
	c.Add("d")
	assert.False(t, s.Has("d"))
	assert.True(t, c.Has("d"))

	var zero ValueSet
	assert.True(t, zero.Add("x"))
	assert.True(t, zero.Has("x"))
}

func TestDraw(t *testing.T) {
	t.Run("skips excluded values", func(t *testing.T) {
		p := &digitProvider{}
		v, err := p.Get(nil, NewValueSet("0", "1", "2"))
		require.NoError(t, err)
		assert.True(t, v.RawEquals(cty.NumberIntVal(3)))
	})

	t.Run("gives up when everything is excluded", func(t *testing.T) {
		p := &digitProvider{}
		all := NewValueSet("0", "1", "2", "3", "4", "5", "6", "7", "8", "9")
		_, err := p.Get(nil, all)
		assert.ErrorIs(t, err, ErrExhausted)
	})
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(cty.NilVal))
	assert.True(t, IsEmpty(cty.NullVal(cty.String)))
	assert.True(t, IsEmpty(cty.UnknownVal(cty.Number)))
	assert.True(t, IsEmpty(cty.StringVal("")))
	assert.False(t, IsEmpty(cty.StringVal("x")))
	assert.False(t, IsEmpty(cty.Zero))
	assert.False(t, IsEmpty(cty.False))
}

func TestContext(t *testing.T) {
	row := map[string]cty.Value{"first": cty.StringVal("Ada")}
	args := map[string][]cty.Value{
		"parts": {cty.StringVal("a"), cty.StringVal("b")},
	}
	ctx := NewContext(2, 10, row, args)

	assert.Equal(t, 2, ctx.RowIndex)
	assert.Equal(t, 10, ctx.RowCount)

	v, ok := ctx.Value("first")
	require.True(t, ok)
	assert.Equal(t, "Ada", v.AsString())

	first, ok := ctx.Argument("parts")
	require.True(t, ok)
	assert.Equal(t, "a", first.AsString())
	assert.Len(t, ctx.Arguments("parts"), 2)

	_, ok = ctx.Argument("missing")
	assert.False(t, ok)

	var nilCtx *Context
	_, ok = nilCtx.Argument("parts")
	assert.False(t, ok)
	assert.Nil(t, nilCtx.Arguments("parts"))
}

func TestComplement(t *testing.T) {
	domain := Interval[int64]{Lo: 0, Hi: 100}

	tests := []struct {
		name string
		cuts []Interval[int64]
		want []Interval[int64]
	}{
		{"no cuts", nil, []Interval[int64]{{0, 100}}},
		{"middle cut", []Interval[int64]{{20, 30}}, []Interval[int64]{{0, 20}, {30, 100}}},
		{"overlapping cuts", []Interval[int64]{{40, 60}, {10, 50}}, []Interval[int64]{{0, 10}, {60, 100}}},
		{"cut at edges", []Interval[int64]{{0, 10}, {90, 120}}, []Interval[int64]{{10, 90}}},
		{"full cover", []Interval[int64]{{-5, 200}}, nil},
		{"empty cut ignored", []Interval[int64]{{50, 50}}, []Interval[int64]{{0, 100}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Complement(domain, tc.cuts))
		})
	}
}

func TestPickInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, ok := PickInterval[int64](rng, nil)
	assert.False(t, ok)

	ivs := []Interval[int64]{{0, 1}, {10, 1000}}
	counts := map[int64]int{}
	for range 1000 {
		iv, ok := PickInterval(rng, ivs)
		require.True(t, ok)
		counts[iv.Lo]++
	}
	assert.Greater(t, counts[10], counts[0])

	_, ok = PickInterval(rng, []Interval[int64]{{5, 5}, {9, 3}})
	assert.False(t, ok, "empty intervals are never picked")

	for range 100 {
		iv, ok := PickInterval(rng, []Interval[int64]{{0, 0}, {math.MinInt64, math.MaxInt64}, {7, 7}})
		require.True(t, ok)
		assert.Equal(t, Interval[int64]{math.MinInt64, math.MaxInt64}, iv)
	}
}

func TestCheckRange(t *testing.T) {
	assert.NoError(t, CheckRange(Interval[int64]{Lo: 1, Hi: 2}))
	assert.NoError(t, CheckRange(Interval[float64]{Lo: 0.5, Hi: 0.75}))

	err := CheckRange(Interval[int64]{Lo: 40, Hi: 10})
	assert.ErrorIs(t, err, ErrEmptyRange)
	assert.ErrorContains(t, err, "[40, 10)")
	assert.ErrorIs(t, CheckRange(Interval[float64]{Lo: 3, Hi: 3}), ErrEmptyRange)
}

func TestNumberID(t *testing.T) {
	testCases := map[string]cty.Value{
		"18":   cty.NumberIntVal(18),
		"-3":   cty.NumberIntVal(-3),
		"1.5":  cty.NumberFloatVal(1.5),
		"0.25": cty.MustParseNumberVal("0.25"),
	}
	for want, v := range testCases {
		got, err := NumberID(v)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		back, err := ParseNumberID(got)
		require.NoError(t, err)
		assert.True(t, back.Equals(v).True(), want)
	}

	_, err := NumberID(cty.StringVal("1"))
	require.Error(t, err)
	_, err = NumberID(cty.NullVal(cty.Number))
	require.Error(t, err)
	_, err = ParseNumberID("one")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestStringID(t *testing.T) {
	id, err := StringID(cty.StringVal("GOLD"))
	require.NoError(t, err)
	assert.Equal(t, "GOLD", id)

	_, err = StringID(cty.True)
	require.Error(t, err)
}

func TestDrawInt(t *testing.T) {
	p := &digitProvider{}
	rng := rand.New(rand.NewSource(1))
	value := func(n int64) cty.Value { return cty.NumberIntVal(n) }

	t.Run("crowded domain is enumerated", func(t *testing.T) {
		excluded := NewValueSet("0", "1", "2", "3", "4", "5", "6", "7", "8")
		v, err := DrawInt(p, rng, []Interval[int64]{{Lo: 0, Hi: 10}}, excluded, value)
		require.NoError(t, err)
		assert.True(t, v.RawEquals(cty.NumberIntVal(9)))
	})

	t.Run("full domain is exhausted", func(t *testing.T) {
		excluded := NewValueSet("0", "1", "2")
		_, err := DrawInt(p, rng, []Interval[int64]{{Lo: 0, Hi: 3}}, excluded, value)
		assert.ErrorIs(t, err, ErrExhausted)
	})

	t.Run("samples inside the intervals", func(t *testing.T) {
		ivs := []Interval[int64]{{Lo: 0, Hi: 5}, {Lo: 100, Hi: 105}}
		for range 200 {
			v, err := DrawInt(p, rng, ivs, nil, value)
			require.NoError(t, err)
			n, _ := v.AsBigFloat().Int64()
			assert.True(t, ivs[0].Contains(n) || ivs[1].Contains(n), n)
		}
	})

	t.Run("empty intervals", func(t *testing.T) {
		_, err := DrawInt(p, rng, nil, nil, value)
		assert.ErrorIs(t, err, ErrExhausted)
	})

	t.Run("spans wider than int64", func(t *testing.T) {
		ivs := []Interval[int64]{{Lo: math.MinInt64, Hi: math.MaxInt64}}
		var negative, positive int
		for range 200 {
			v, err := DrawInt(p, rng, ivs, nil, value)
			require.NoError(t, err)
			n, _ := v.AsBigFloat().Int64()
			require.Less(t, n, int64(math.MaxInt64))
			if n < 0 {
				negative++
			} else {
				positive++
			}
		}
		assert.Positive(t, negative)
		assert.Positive(t, positive)
	})
}
