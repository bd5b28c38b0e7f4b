package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themestate/internal/config"
	"github.com/jmylchreest/themestate/internal/store"
)

var watchOpts struct {
	format string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow theme changes and print them",
	Long: `Run a long-lived session and print every state change until interrupted.

Changes come from the OS preference, from other processes writing the
preferences file (when [store] watch is enabled), and from edits to the
config file, which are applied without restarting.

Examples:
  themectl watch
  themectl watch --format json | jq -r .current.resolved`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchOpts.format, "format", "f", "plain",
		"Output format (plain, json)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchOpts.format != "plain" && watchOpts.format != "json" {
		return fmt.Errorf("unknown format %q, must be one of: plain, json", watchOpts.format)
	}

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
	events := h.Subscribe()
	defer h.Unsubscribe(events)

	enc := json.NewEncoder(os.Stdout)
	emit := func(v any, line string) {
		if watchOpts.format == "json" {
			_ = enc.Encode(v)
			return
		}
		fmt.Fprintln(os.Stdout, line)
	}

	st := h.State()
	emit(st, fmt.Sprintf("mode=%s system=%s resolved=%s", st.Mode, st.System, st.Resolved))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			emit(ev, describeEvent(ev))
		}
	}
}

// startWatchers follows the preferences file and the config file.
// The returned func stops both.
func startWatchers(ctx context.Context, s *session) func() {
	var stops []func()

	if f := s.file(); f != nil && cfg.Store.Watch {
		w, err := store.NewWatcher(f.Path(), logger)
		if err != nil {
			logger.Warn("failed to create preferences watcher", "error", err)
		} else {
			w.SetChangeCallback(s.provider.SyncFromStore)
			if err := w.Start(); err != nil {
				logger.Warn("failed to start preferences watcher", "error", err)
				_ = w.Stop()
			} else {
				stops = append(stops, func() { _ = w.Stop() })
			}
		}
	}

	cw := config.NewWatcher(globalOpts.configPath, logger)
	cw.SetReloadCallback(func(next *config.Config) {
		s.provider.Reconfigure(ctx, next.ThemeOptions())
	})
	cw.SetErrorCallback(func(err error) {
		fmt.Fprintf(os.Stderr, "config not applied: %v\n", err)
	})
	if err := cw.Start(ctx, cfg); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	} else {
		stops = append(stops, cw.Stop)
	}

	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}
