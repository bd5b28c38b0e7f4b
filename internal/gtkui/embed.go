// Package gtkui binds theme sessions to GTK 4 and libadwaita: a widget sink,
// a StyleManager observer and a stylesheet loader keyed on the marker classes.
package gtkui

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/jmylchreest/themestate/internal/theme"
)

// EmbeddedStylesheets contains the bundled stylesheets.
//
//go:embed stylesheets/*.css
var EmbeddedStylesheets embed.FS

// DefaultStylesheet is the name of the built-in stylesheet.
const DefaultStylesheet = "default"

// GetEmbeddedStylesheet returns the raw template of a bundled stylesheet.
func GetEmbeddedStylesheet(name string) (string, bool) {
	data, err := EmbeddedStylesheets.ReadFile("stylesheets/" + name + ".css")
	if err != nil {
		return "", false
	}
	return string(data), true
}

// ListEmbeddedStylesheets returns the names of all bundled stylesheets.
func ListEmbeddedStylesheets() []string {
	entries, err := fs.ReadDir(EmbeddedStylesheets, "stylesheets")
	if err != nil {
		return []string{DefaultStylesheet}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext := filepath.Ext(entry.Name()); ext == ".css" {
			names = append(names, strings.TrimSuffix(entry.Name(), ext))
		}
	}
	return names
}

// classNames are the template fields available to stylesheets.
type classNames struct {
	Light         string
	Dark          string
	NoTransitions string
}

// Render expands a stylesheet template with the marker classes of cfg.
func Render(name, src string, cfg theme.Config) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return "", fmt.Errorf("failed to parse stylesheet %s: %w", name, err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, classNames{
		Light:         cfg.LightClass,
		Dark:          cfg.DarkClass,
		NoTransitions: theme.NoTransitionsClass,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render stylesheet %s: %w", name, err)
	}
	return buf.String(), nil
}
