package uuid

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/datagridgo/internal/provider"
)

func TestGet_VersionAndDeterminism(t *testing.T) {
	t.Parallel()
	a, b := &Provider{}, &Provider{}
	require.NoError(t, a.InitRandomizer(11))
	require.NoError(t, b.InitRandomizer(11))

	for range 20 {
		va, err := a.Get(nil, nil)
		require.NoError(t, err)
		vb, err := b.Get(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, va.AsString(), vb.AsString())

		u, err := uuid.Parse(va.AsString())
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), u.Version())
	}
}

func TestUppercase(t *testing.T) {
	t.Parallel()
	p := &Provider{upper: true}
	require.NoError(t, p.InitRandomizer(1))

	v, err := p.Get(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, strings.ToUpper(v.AsString()), v.AsString())

	id, err := p.GetValueID(v)
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(v.AsString()), id)

	back, err := p.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, v.AsString(), back.AsString())
}

func TestGetByID_Invalid(t *testing.T) {
	t.Parallel()
	_, err := (&Provider{}).GetByID("not-a-uuid")
	assert.ErrorIs(t, err, provider.ErrInvalidID)
}
