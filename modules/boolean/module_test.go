package boolean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/datagridgo/internal/provider"
	"github.com/vk/datagridgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

func build(t *testing.T, ratio float64) provider.Provider {
	t.Helper()
	reg, ok := registry.New(&Module{}).Lookup("boolean")
	require.True(t, ok)
	p, err := reg.New(&Options{TrueRatio: ratio})
	require.NoError(t, err)
	require.NoError(t, p.InitRandomizer(9))
	return p
}

func TestGet_Ratio(t *testing.T) {
	t.Parallel()

	for _, ratio := range []float64{0, 1} {
		p := build(t, ratio)
		for range 50 {
			v, err := p.Get(nil, nil)
			require.NoError(t, err)
			assert.Equal(t, ratio == 1, v.True())
		}
	}

	p := build(t, 0.5)
	trues := 0
	for range 1000 {
		v, err := p.Get(nil, nil)
		require.NoError(t, err)
		if v.True() {
			trues++
		}
	}
	assert.InDelta(t, 500, trues, 100)
}

func TestGet_Exclusion(t *testing.T) {
	t.Parallel()
	p := build(t, 1)

	v, err := p.Get(nil, provider.NewValueSet("true"))
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.False))

	_, err = p.Get(nil, provider.NewValueSet("true", "false"))
	assert.ErrorIs(t, err, provider.ErrExhausted)
}

func TestIDs(t *testing.T) {
	t.Parallel()
	p := build(t, 0.5)

	v, err := p.GetByID("true")
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.True))

	id, err := p.GetValueID(cty.False)
	require.NoError(t, err)
	assert.Equal(t, "false", id)

	_, err = p.GetByID("yes")
	assert.ErrorIs(t, err, provider.ErrInvalidID)
}

func TestNew_RejectsRatio(t *testing.T) {
	t.Parallel()
	reg, _ := registry.New(&Module{}).Lookup("boolean")
	_, err := reg.New(&Options{TrueRatio: 1.5})
	assert.ErrorContains(t, err, "true_ratio must be between 0 and 1")
}
