package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	themedbus "github.com/jmylchreest/themestate/internal/dbus"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Export the theme session on the D-Bus session bus",
	Long: `Run a long-lived session and export it on the session bus as
io.github.jmylchreest.ThemeState at /io/github/jmylchreest/ThemeState.

Methods: GetState, SetMode, ToggleMode. Every change is broadcast as the
StateChanged signal. The preferences file and config file are followed the
same way as "themectl watch".

Examples:
  themectl serve &
  busctl --user call io.github.jmylchreest.ThemeState \
    /io/github/jmylchreest/ThemeState io.github.jmylchreest.ThemeState ToggleMode`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	stopWatchers := startWatchers(ctx, s)
	defer stopWatchers()

	h := s.provider.Handle()
	server := themedbus.NewThemeServer(h, logger)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start D-Bus server: %w", err)
	}
	defer func() { _ = server.Stop() }()

	events := h.Subscribe()
	defer h.Unsubscribe(events)
	go server.Follow(events)

	<-ctx.Done()
	return nil
}
