package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themestate/internal/model"
)

var setOpts struct {
	format string
}

var setCmd = &cobra.Command{
	Use:       "set <light|dark|system>",
	Short:     "Select a theme mode",
	ValidArgs: []string{"light", "dark", "system"},
	Long: `Select and persist a theme mode.

"system" follows the OS color-scheme preference.

Examples:
  themectl set dark
  themectl set system --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Cycle the theme mode (light → dark → system → light)",
	Args:  cobra.NoArgs,
	RunE:  runToggle,
}

func init() {
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(toggleCmd)

	for _, c := range []*cobra.Command{setCmd, toggleCmd} {
		c.Flags().StringVarP(&setOpts.format, "format", "f", "plain",
			"Output format (plain, json, yaml)")
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	mode, err := model.ParseMode(args[0])
	if err != nil {
		return err
	}

	return withSession(func(s *session) {
		s.provider.Handle().SetMode(mode)
	})
}

func runToggle(cmd *cobra.Command, args []string) error {
	return withSession(func(s *session) {
		s.provider.Handle().ToggleMode()
	})
}

// withSession opens a session, applies fn and prints the resulting state.
func withSession(fn func(s *session)) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	before := s.provider.Handle().Mode()
	fn(s)
	after := s.provider.Handle().Mode()
	logger.Debug("mode changed", "from", before, "to", after)

	if err := printState(os.Stdout, s, setOpts.format); err != nil {
		return fmt.Errorf("failed to print state: %w", err)
	}
	return nil
}
