// Package model defines the appearance data types shared by themestate packages.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the user-facing theme preference. It is persisted verbatim.
type Mode string

const (
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
	ModeSystem Mode = "system"
)

// Appearance is the concrete light/dark value actually rendered.
// It is always derived and never persisted.
type Appearance string

const (
	AppearanceLight Appearance = "light"
	AppearanceDark  Appearance = "dark"
)

// ErrInvalidMode is returned by ParseMode for unknown values.
var ErrInvalidMode = errors.New("mode must be light, dark, or system")

// ErrInvalidAppearance is returned by ParseAppearance for unknown values.
var ErrInvalidAppearance = errors.New("appearance must be light or dark")

// ValidModes returns all valid mode values in cycle order.
func ValidModes() []Mode {
	return []Mode{ModeLight, ModeDark, ModeSystem}
}

// ModeValid reports whether m is one of the known modes.
func ModeValid(m Mode) bool {
	switch m {
	case ModeLight, ModeDark, ModeSystem:
		return true
	}
	return false
}

// ParseMode parses user input into a Mode. Matching is case-insensitive.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !ModeValid(m) {
		return "", fmt.Errorf("%q: %w", s, ErrInvalidMode)
	}
	return m, nil
}

// ParseAppearance parses user input into an Appearance. Matching is
// case-insensitive.
func ParseAppearance(s string) (Appearance, error) {
	a := Appearance(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case AppearanceLight, AppearanceDark:
		return a, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidAppearance)
}

// Next returns the mode after m in the fixed light -> dark -> system cycle.
// Unknown values restart the cycle at light.
func Next(m Mode) Mode {
	switch m {
	case ModeLight:
		return ModeDark
	case ModeDark:
		return ModeSystem
	default:
		return ModeLight
	}
}

// Resolve derives the effective appearance from the selected mode and the
// appearance observed from the operating system.
func Resolve(m Mode, observed Appearance) Appearance {
	switch m {
	case ModeSystem:
		if observed == AppearanceDark {
			return AppearanceDark
		}
		return AppearanceLight
	case ModeDark:
		return AppearanceDark
	default:
		// Light and anything unrecognised
		return AppearanceLight
	}
}

// AppearanceFromDark maps an OS "prefers dark" flag to an Appearance.
func AppearanceFromDark(dark bool) Appearance {
	if dark {
		return AppearanceDark
	}
	return AppearanceLight
}

// IsDark reports whether a is the dark appearance.
func (a Appearance) IsDark() bool {
	return a == AppearanceDark
}

// String returns the mode literal.
func (m Mode) String() string {
	return string(m)
}

// String returns the appearance literal.
func (a Appearance) String() string {
	return string(a)
}
