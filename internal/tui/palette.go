package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/themestate/internal/model"
	"github.com/jmylchreest/themestate/internal/sink"
	"github.com/jmylchreest/themestate/internal/theme"
)

// Palette is the set of terminal styles for one appearance.
type Palette struct {
	Appearance model.Appearance

	Panel  lipgloss.Style
	Title  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Accent lipgloss.Style
	Muted  lipgloss.Style
	Key    lipgloss.Style
	Error  lipgloss.Style
}

// PaletteFor returns the palette for appearance a.
func PaletteFor(a model.Appearance) Palette {
	bg, fg := lipgloss.Color("#fafafa"), lipgloss.Color("#1e1e1e")
	accent, muted := lipgloss.Color("#3a5f9e"), lipgloss.Color("#6b6b6b")
	if a == model.AppearanceDark {
		bg, fg = lipgloss.Color("#1e1e1e"), lipgloss.Color("#f0f0f0")
		accent, muted = lipgloss.Color("#8fb4f0"), lipgloss.Color("#9a9a9a")
	}

	return Palette{
		Appearance: a,
		Panel: lipgloss.NewStyle().
			Background(bg).
			Foreground(fg).
			Padding(1, 3).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent),
		Title:  lipgloss.NewStyle().Bold(true).Foreground(accent).Background(bg),
		Label:  lipgloss.NewStyle().Foreground(muted).Background(bg),
		Value:  lipgloss.NewStyle().Bold(true).Foreground(fg).Background(bg),
		Accent: lipgloss.NewStyle().Foreground(accent),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Key:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// PaletteFromClasses picks the palette from the marker class present on
// root. With no marker present it falls back to light.
func PaletteFromClasses(root *sink.ClassSet, cfg theme.Config) Palette {
	if root != nil && root.Has(cfg.DarkClass) {
		return PaletteFor(model.AppearanceDark)
	}
	return PaletteFor(model.AppearanceLight)
}
