package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/themestate/internal/model"
)

func TestMerge_Defaults(t *testing.T) {
	cfg := Merge(Options{})

	assert.Equal(t, "light", cfg.LightClass)
	assert.Equal(t, "dark", cfg.DarkClass)
	assert.Equal(t, "system", cfg.SystemClass)
	assert.Equal(t, "theme", cfg.StorageKey)
	assert.False(t, cfg.DisableTransitionOnChange)
	assert.True(t, cfg.FollowSystemTheme)
}

func TestMerge_Overrides(t *testing.T) {
	cfg := Merge(Options{
		DarkClass:                 String("night"),
		StorageKey:                String(""),
		DisableTransitionOnChange: Bool(true),
		FollowSystemTheme:         Bool(false),
	})

	assert.Equal(t, "light", cfg.LightClass)
	assert.Equal(t, "night", cfg.DarkClass)
	assert.Equal(t, "", cfg.StorageKey, "explicit empty values are kept")
	assert.True(t, cfg.DisableTransitionOnChange)
	assert.False(t, cfg.FollowSystemTheme)
}

func TestConfig_ClassFor(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "dark", cfg.ClassFor(model.AppearanceDark))
	assert.Equal(t, "light", cfg.ClassFor(model.AppearanceLight))
	assert.Equal(t, []string{"light", "dark", "system"}, cfg.MarkerClasses())
}
