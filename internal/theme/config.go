package theme

import (
	"github.com/jmylchreest/themestate/internal/model"
)

// NoTransitionsClass is the marker added while a class swap is in flight so
// the swap itself does not animate.
const NoTransitionsClass = "no-transitions"

// Default configuration values.
const (
	DefaultLightClass  = "light"
	DefaultDarkClass   = "dark"
	DefaultSystemClass = "system"
	DefaultStorageKey  = "theme"
	DefaultMode        = model.ModeLight
)

// Config is the merged configuration of a provider.
type Config struct {
	LightClass                string
	DarkClass                 string
	SystemClass               string // never applied; only removed
	StorageKey                string
	DisableTransitionOnChange bool
	FollowSystemTheme         bool
}

// Options overrides Config fields. Nil fields keep their defaults.
type Options struct {
	LightClass                *string `toml:"light_class"`
	DarkClass                 *string `toml:"dark_class"`
	SystemClass               *string `toml:"system_class"`
	StorageKey                *string `toml:"storage_key"`
	DisableTransitionOnChange *bool   `toml:"disable_transition_on_change"`
	FollowSystemTheme         *bool   `toml:"follow_system_theme"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		LightClass:                DefaultLightClass,
		DarkClass:                 DefaultDarkClass,
		SystemClass:               DefaultSystemClass,
		StorageKey:                DefaultStorageKey,
		DisableTransitionOnChange: false,
		FollowSystemTheme:         true,
	}
}

// Merge overlays the supplied options on the defaults.
// The merge is shallow and values are not validated.
func Merge(o Options) Config {
	c := DefaultConfig()
	if o.LightClass != nil {
		c.LightClass = *o.LightClass
	}
	if o.DarkClass != nil {
		c.DarkClass = *o.DarkClass
	}
	if o.SystemClass != nil {
		c.SystemClass = *o.SystemClass
	}
	if o.StorageKey != nil {
		c.StorageKey = *o.StorageKey
	}
	if o.DisableTransitionOnChange != nil {
		c.DisableTransitionOnChange = *o.DisableTransitionOnChange
	}
	if o.FollowSystemTheme != nil {
		c.FollowSystemTheme = *o.FollowSystemTheme
	}
	return c
}

// MarkerClasses returns the light, dark and system classes in that order.
func (c Config) MarkerClasses() []string {
	return []string{c.LightClass, c.DarkClass, c.SystemClass}
}

// ClassFor returns the marker class applied for appearance a.
func (c Config) ClassFor(a model.Appearance) string {
	if a == model.AppearanceDark {
		return c.DarkClass
	}
	return c.LightClass
}

// String returns a pointer to s, for building Options.
func String(s string) *string {
	return &s
}

// Bool returns a pointer to b, for building Options.
func Bool(b bool) *bool {
	return &b
}
