package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_CycleClosure(t *testing.T) {
	for _, start := range ValidModes() {
		t.Run(string(start), func(t *testing.T) {
			m := start
			for i := 0; i < 3; i++ {
				m = Next(m)
			}
			assert.Equal(t, start, m)
		})
	}
}

func TestNext_Order(t *testing.T) {
	assert.Equal(t, ModeDark, Next(ModeLight))
	assert.Equal(t, ModeSystem, Next(ModeDark))
	assert.Equal(t, ModeLight, Next(ModeSystem))
	assert.Equal(t, ModeLight, Next(Mode("sepia")))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		mode     Mode
		observed Appearance
		want     Appearance
	}{
		{ModeLight, AppearanceLight, AppearanceLight},
		{ModeLight, AppearanceDark, AppearanceLight},
		{ModeDark, AppearanceLight, AppearanceDark},
		{ModeDark, AppearanceDark, AppearanceDark},
		{ModeSystem, AppearanceLight, AppearanceLight},
		{ModeSystem, AppearanceDark, AppearanceDark},
		{Mode("sepia"), AppearanceDark, AppearanceLight},
		{Mode(""), AppearanceDark, AppearanceLight},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode)+"/"+string(tt.observed), func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.mode, tt.observed))
		})
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("  Dark ")
	require.NoError(t, err)
	assert.Equal(t, ModeDark, m)

	m, err = ParseMode("SYSTEM")
	require.NoError(t, err)
	assert.Equal(t, ModeSystem, m)

	_, err = ParseMode("auto")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestParseAppearance(t *testing.T) {
	a, err := ParseAppearance("dark")
	require.NoError(t, err)
	assert.Equal(t, AppearanceDark, a)

	a, err = ParseAppearance(" Light")
	require.NoError(t, err)
	assert.Equal(t, AppearanceLight, a)

	for _, in := range []string{"system", "drak", ""} {
		_, err = ParseAppearance(in)
		assert.ErrorIs(t, err, ErrInvalidAppearance, in)
	}
}

func TestModeValid(t *testing.T) {
	assert.True(t, ModeValid(ModeLight))
	assert.True(t, ModeValid(ModeDark))
	assert.True(t, ModeValid(ModeSystem))
	assert.False(t, ModeValid("Light"))
	assert.False(t, ModeValid(""))
}

func TestAppearanceFromDark(t *testing.T) {
	assert.Equal(t, AppearanceDark, AppearanceFromDark(true))
	assert.Equal(t, AppearanceLight, AppearanceFromDark(false))
	assert.True(t, AppearanceDark.IsDark())
	assert.False(t, AppearanceLight.IsDark())
}
