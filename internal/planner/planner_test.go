package planner

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/datagridgo/internal/generr"
	"golang.org/x/exp/rand"
	"pgregory.net/rapid"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		weights []float64
		wantErr string
	}{
		{name: "single full bucket", weights: []float64{1}},
		{name: "partial sum", weights: []float64{0.25, 0.25}},
		{name: "exact one with float noise", weights: []float64{0.1, 0.2, 0.7}},
		{name: "nil list", weights: nil, wantErr: "empty"},
		{name: "empty list", weights: []float64{}, wantErr: "empty"},
		{name: "zero weight", weights: []float64{0.5, 0}, wantErr: "greater than 0"},
		{name: "negative weight", weights: []float64{-0.1}, wantErr: "greater than 0"},
		{name: "sum over one", weights: []float64{0.5, 0.5, 0.25}, wantErr: "must not exceed 1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.weights)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
			assert.True(t, errors.Is(err, generr.ErrConfiguration))
		})
	}
}

func TestQuotas(t *testing.T) {
	testCases := []struct {
		name      string
		weights   []float64
		rows      int
		want      []int
		remainder int
	}{
		{name: "quarters of 100", weights: []float64{0.25, 0.25, 0.5}, rows: 100, want: []int{25, 25, 50}, remainder: 0},
		{name: "quarters of 75 floor", weights: []float64{0.25, 0.25, 0.5}, rows: 75, want: []int{18, 18, 37}, remainder: 2},
		{name: "partial weights", weights: []float64{0.25, 0.25}, rows: 75, want: []int{18, 18}, remainder: 39},
		{name: "binary artifacts", weights: []float64{0.29}, rows: 100, want: []int{29}, remainder: 71},
		{name: "many small buckets under-allocate", weights: []float64{0.1, 0.1, 0.1, 0.1, 0.1}, rows: 9, want: []int{0, 0, 0, 0, 0}, remainder: 9},
		{name: "zero rows", weights: []float64{1}, rows: 0, want: []int{0}, remainder: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, rem := Quotas(tc.weights, tc.rows)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.remainder, rem)
		})
	}
}

func TestPlan(t *testing.T) {
	t.Run("counts match quotas", func(t *testing.T) {
		p, err := New([]float64{0.25, 0.25}, 75, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		assert.Equal(t, 2, p.Buckets())

		counts := map[int]int{}
		for range 75 {
			counts[p.Next()]++
		}
		assert.Equal(t, map[int]int{0: 18, 1: 18, Default: 39}, counts)
		assert.Equal(t, 0, p.Remaining(0))
		assert.Equal(t, 0, p.Remaining(1))
		assert.Equal(t, 0, p.DefaultRemaining())
	})

	t.Run("rows beyond the plan go to default", func(t *testing.T) {
		p, err := New([]float64{1}, 1, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, p.Next())
		assert.Equal(t, Default, p.Next())
	})

	t.Run("nil rng hands buckets out in reverse", func(t *testing.T) {
		p, err := New([]float64{0.5}, 2, nil)
		require.NoError(t, err)
		assert.Equal(t, Default, p.Next())
		assert.Equal(t, 0, p.Next())
	})

	t.Run("same seed same sequence", func(t *testing.T) {
		draw := func() []int {
			p, err := New([]float64{0.2, 0.3}, 50, rand.New(rand.NewSource(99)))
			require.NoError(t, err)
			out := make([]int, 50)
			for i := range out {
				out[i] = p.Next()
			}
			return out
		}
		assert.Equal(t, draw(), draw())
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := New(nil, 10, nil)
		assert.Error(t, err)

		_, err = New([]float64{0.5}, -1, nil)
		assert.ErrorContains(t, err, "must not be negative")
		assert.True(t, errors.Is(err, generr.ErrConfiguration))
	})

	t.Run("out of range bucket index", func(t *testing.T) {
		p, err := New([]float64{0.5}, 10, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, p.Remaining(-1))
		assert.Equal(t, 0, p.Remaining(3))
	})
}

func TestPlanProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(t, "buckets")
		weights := make([]float64, n)
		budget := 1.0
		for i := range weights {
			w := rapid.Float64Range(0.001, 1).Draw(t, "weight")
			w = w * budget / float64(n-i)
			if w <= 0 {
				w = 0.0001
			}
			weights[i] = w
			budget -= w
		}
		rows := rapid.IntRange(0, 500).Draw(t, "rows")
		seed := rapid.Uint64().Draw(t, "seed")

		require.NoError(t, Validate(weights))
		quotas, def := Quotas(weights, rows)

		sum := def
		for i, q := range quotas {
			if q < 0 || float64(q) > weights[i]*float64(rows)+epsilon {
				t.Fatalf("bucket %d quota %d out of bounds for weight %v", i, q, weights[i])
			}
			sum += q
		}
		if sum != rows {
			t.Fatalf("quotas sum to %d, want %d", sum, rows)
		}

		p, err := New(weights, rows, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		got := make([]int, n)
		gotDef := 0
		for range rows {
			if b := p.Next(); b == Default {
				gotDef++
			} else {
				got[b]++
			}
		}
		if gotDef != def {
			t.Fatalf("default rows = %d, want %d", gotDef, def)
		}
		for i := range got {
			if got[i] != quotas[i] {
				t.Fatalf("bucket %d rows = %d, want %d", i, got[i], quotas[i])
			}
		}
	})
}
