package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themestate/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive theme preview",
	Long: `Launch a terminal preview of the theme session.

The panel is styled from the marker class on the session's root element,
so it switches palette exactly when a class swap happens.

Key bindings:
  t, space    Cycle mode (light → dark → system)
  l / d / s   Select light, dark or system
  c / C       Copy state as JSON / YAML
  x           Clear the event log
  ?           Toggle help
  q           Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	stopWatchers := startWatchers(ctx, s)
	defer stopWatchers()

	return tui.Run(tui.RunOptions{
		Config: cfg.TUI,
		Handle: s.provider.Handle(),
		Root:   s.root,
	})
}
