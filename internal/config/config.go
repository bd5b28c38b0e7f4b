// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/themestate/internal/model"
	"github.com/jmylchreest/themestate/internal/observer"
	"github.com/jmylchreest/themestate/internal/theme"
)

// Default configuration values.
const (
	DefaultBackend       = observer.BackendAuto
	DefaultPollInterval  = Duration(2 * time.Second)
	DefaultStylesheet    = "default"
	DefaultHistoryLength = 20
)

// Config represents the themestate configuration.
// Loaded from ~/.config/themestate/config.toml
type Config struct {
	Theme    ThemeConfig    `toml:"theme"`
	Store    StoreConfig    `toml:"store"`
	Observer ObserverConfig `toml:"observer"`
	GTK      GTKConfig      `toml:"gtk"`
	TUI      TUIConfig      `toml:"tui"`
}

// ThemeConfig holds the provider options.
type ThemeConfig struct {
	DefaultMode               string `toml:"default_mode"` // "light", "dark", or "system"
	LightClass                string `toml:"light_class"`
	DarkClass                 string `toml:"dark_class"`
	SystemClass               string `toml:"system_class"`
	StorageKey                string `toml:"storage_key"`
	DisableTransitionOnChange bool   `toml:"disable_transition_on_change"`
	FollowSystemTheme         bool   `toml:"follow_system_theme"`
}

// StoreConfig holds preference store settings.
type StoreConfig struct {
	Path  string `toml:"path"`  // Empty = $XDG_STATE_HOME/themestate/preferences.json
	Watch bool   `toml:"watch"` // Follow writes made by other processes
}

// ObserverConfig holds OS preference detection settings.
type ObserverConfig struct {
	Backend      string   `toml:"backend"`       // "auto", "portal", "terminal", or "none"
	PollInterval Duration `toml:"poll_interval"` // Terminal backend only; 0 = no polling
}

// GTKConfig holds settings for the GTK frontend.
type GTKConfig struct {
	Stylesheet string `toml:"stylesheet"` // Stylesheet name without .css extension
	HotReload  bool   `toml:"hot_reload"` // Reload user stylesheets on change
}

// TUIConfig holds settings for the terminal preview.
type TUIConfig struct {
	ShowHelp         bool   `toml:"show_help"`
	HistoryLength    int    `toml:"history_length"`    // Change events kept in the log
	ClipboardCommand string `toml:"clipboard_command"` // Auto-detected if empty
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	tc := theme.DefaultConfig()
	return &Config{
		Theme: ThemeConfig{
			DefaultMode:               string(theme.DefaultMode),
			LightClass:                tc.LightClass,
			DarkClass:                 tc.DarkClass,
			SystemClass:               tc.SystemClass,
			StorageKey:                tc.StorageKey,
			DisableTransitionOnChange: tc.DisableTransitionOnChange,
			FollowSystemTheme:         tc.FollowSystemTheme,
		},
		Store: StoreConfig{
			Path:  "",
			Watch: true,
		},
		Observer: ObserverConfig{
			Backend:      DefaultBackend,
			PollInterval: DefaultPollInterval,
		},
		GTK: GTKConfig{
			Stylesheet: DefaultStylesheet,
			HotReload:  true,
		},
		TUI: TUIConfig{
			ShowHelp:      true,
			HistoryLength: DefaultHistoryLength,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "themestate", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults, then overlay with file contents
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := model.ParseMode(c.Theme.DefaultMode); err != nil {
		return fmt.Errorf("default_mode: %w", err)
	}

	if c.Theme.LightClass == "" || c.Theme.DarkClass == "" {
		return errors.New("light_class and dark_class must not be empty")
	}
	if c.Theme.LightClass == c.Theme.DarkClass {
		return fmt.Errorf("light_class and dark_class must differ, both are %q", c.Theme.LightClass)
	}
	if c.Theme.StorageKey == "" {
		return errors.New("storage_key must not be empty")
	}

	if !slices.Contains(observer.ValidBackends(), c.Observer.Backend) {
		return fmt.Errorf("invalid observer backend %q, must be one of: %v", c.Observer.Backend, observer.ValidBackends())
	}
	if c.Observer.PollInterval < 0 {
		return fmt.Errorf("poll_interval must not be negative, got %s", c.Observer.PollInterval.Duration())
	}

	if c.TUI.HistoryLength < 0 || c.TUI.HistoryLength > 1000 {
		return fmt.Errorf("history_length must be between 0 and 1000, got %d", c.TUI.HistoryLength)
	}

	return nil
}

// DefaultMode returns the parsed default mode.
func (c *Config) DefaultMode() model.Mode {
	m, err := model.ParseMode(c.Theme.DefaultMode)
	if err != nil {
		return theme.DefaultMode
	}
	return m
}

// ThemeOptions returns the provider options described by the config.
func (c *Config) ThemeOptions() theme.Options {
	return theme.Options{
		LightClass:                theme.String(c.Theme.LightClass),
		DarkClass:                 theme.String(c.Theme.DarkClass),
		SystemClass:               theme.String(c.Theme.SystemClass),
		StorageKey:                theme.String(c.Theme.StorageKey),
		DisableTransitionOnChange: theme.Bool(c.Theme.DisableTransitionOnChange),
		FollowSystemTheme:         theme.Bool(c.Theme.FollowSystemTheme),
	}
}

// StorePath returns the preferences file path with ~ expanded.
// Empty means the default location.
func (c *Config) StorePath() string {
	return expandPath(c.Store.Path)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
