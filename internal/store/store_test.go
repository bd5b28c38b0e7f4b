package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSet(t *testing.T) {
	m := NewMemory(map[string]string{"theme": "dark"})

	v, ok, err := m.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	_, ok, err = m.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set("theme", "system"))
	v, _, _ = m.Get("theme")
	assert.Equal(t, "system", v)
	assert.Equal(t, 1, m.Writes())
}

func TestMemory_SeedIsCopied(t *testing.T) {
	seed := map[string]string{"theme": "light"}
	m := NewMemory(seed)
	seed["theme"] = "dark"

	v, _, _ := m.Get("theme")
	assert.Equal(t, "light", v)
}

func TestUnavailable(t *testing.T) {
	var s Store = Unavailable{}

	_, ok, err := s.Get("theme")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, s.Set("theme", "dark"), ErrUnavailable)
}
