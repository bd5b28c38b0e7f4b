package gtkui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/themestate/internal/theme"
)

func TestListEmbeddedStylesheets(t *testing.T) {
	names := ListEmbeddedStylesheets()
	assert.Contains(t, names, "default")
	assert.Contains(t, names, "contrast")
}

func TestRender_DefaultClasses(t *testing.T) {
	for _, name := range ListEmbeddedStylesheets() {
		t.Run(name, func(t *testing.T) {
			src, ok := GetEmbeddedStylesheet(name)
			require.True(t, ok)

			css, err := Render(name, src, theme.DefaultConfig())
			require.NoError(t, err)

			assert.Contains(t, css, "window.light")
			assert.Contains(t, css, "window.dark")
			assert.Contains(t, css, "window.no-transitions")
			assert.NotContains(t, css, "{{")
		})
	}
}

func TestRender_CustomClasses(t *testing.T) {
	src, ok := GetEmbeddedStylesheet(DefaultStylesheet)
	require.True(t, ok)

	cfg := theme.Merge(theme.Options{
		LightClass: theme.String("day"),
		DarkClass:  theme.String("night"),
	})
	css, err := Render(DefaultStylesheet, src, cfg)
	require.NoError(t, err)

	assert.Contains(t, css, "window.day")
	assert.Contains(t, css, "window.night")
	assert.False(t, strings.Contains(css, "window.light"))
}

func TestRender_BadTemplate(t *testing.T) {
	_, err := Render("broken", "window.{{.Light", theme.DefaultConfig())
	assert.Error(t, err)

	_, err = Render("unknown", "window.{{.Sepia}} {}", theme.DefaultConfig())
	assert.Error(t, err)
}
