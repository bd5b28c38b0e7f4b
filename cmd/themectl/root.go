// Package main provides the themectl CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themestate/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		stateFile  string
		configPath string
		osOverride string
		backend    string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "themectl",
	Short: "Light, dark and system theme preference manager",
	Long: `themectl manages a persisted light/dark/system theme preference.

The selected mode is resolved against the desktop color-scheme preference
(via the XDG desktop portal) or the terminal background, and mirrored as a
single marker class: "light" or "dark".

Running themectl without a subcommand prints the current state.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if globalOpts.stateFile != "" {
			cfg.Store.Path = globalOpts.stateFile
		}
		if globalOpts.backend != "" {
			cfg.Observer.Backend = globalOpts.backend
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGet(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.stateFile, "state-file", "",
		"Path to preferences file (default: ~/.local/state/themestate/preferences.json)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/themestate/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.osOverride, "os", "",
		"Pretend the OS prefers this appearance (light, dark)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.backend, "backend", "",
		"OS preference backend (auto, portal, terminal, none)")

	rootCmd.Flags().StringVarP(&getOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}
