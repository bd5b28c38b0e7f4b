// Package main is the entry point for themectl-gtk, a libadwaita window
// driven by a theme session.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/themestate/internal/config"
	"github.com/jmylchreest/themestate/internal/gtkui"
	"github.com/jmylchreest/themestate/internal/model"
	"github.com/jmylchreest/themestate/internal/observer"
	"github.com/jmylchreest/themestate/internal/store"
	"github.com/jmylchreest/themestate/internal/theme"
)

const appID = "io.github.jmylchreest.themestate"

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/themestate/config.toml)")
	stateFile := flag.String("state-file", "", "Path to preferences file")
	osOverride := flag.String("os", "", "Pretend the OS prefers this appearance (light, dark)")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("themectl-gtk version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *stateFile != "" {
		cfg.Store.Path = *stateFile
	}

	var override model.Appearance
	if *osOverride != "" {
		override, err = model.ParseAppearance(*osOverride)
		if err != nil {
			logger.Error("invalid --os value", "error", err)
			os.Exit(2)
		}
	}

	os.Exit(run(cfg, *configPath, override, logger))
}

// window holds the widgets that display session state.
type window struct {
	win   *adw.ApplicationWindow
	box   *gtk.Box
	label *gtk.Label
}

func run(cfg *config.Config, configPath string, osOverride model.Appearance, logger *slog.Logger) int {
	app := adw.NewApplication(appID, 0)

	var (
		provider      *theme.Provider
		loader        *gtkui.Loader
		prefsWatcher  *store.Watcher
		configWatcher *config.Watcher
		running       atomic.Bool
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		glib.IdleAdd(app.Quit)
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			return
		}
		running.Store(true)

		w := buildWindow(app)
		root := gtkui.NewWidgetSink(w.win)

		var obs observer.Observer = gtkui.NewStyleManagerObserver()
		if osOverride != "" {
			obs = observer.NewManual(osOverride.IsDark())
		}

		st := store.Open(cfg.StorePath())
		provider = theme.NewProvider(ctx, theme.ProviderOptions{
			DefaultMode: cfg.DefaultMode(),
			Options:     cfg.ThemeOptions(),
			Store:       st,
			Sink:        root,
			Observer:    obs,
			Logger:      logger,
		})
		h := provider.Handle()

		loader = gtkui.NewLoader("", logger)
		if err := loader.Load(cfg.GTK.Stylesheet, h.Config()); err != nil {
			logger.Warn("failed to load stylesheet", "error", err)
		}
		loader.Apply(nil)
		if cfg.GTK.HotReload {
			if err := loader.StartHotReload(); err != nil {
				logger.Warn("failed to watch stylesheet", "error", err)
			}
		}

		connectControls(w, theme.NewContext(ctx, h))
		w.update(h.State())
		go followChanges(h, w)

		// Other processes writing the preferences file
		if f, ok := st.(*store.File); ok && cfg.Store.Watch {
			var err error
			prefsWatcher, err = store.NewWatcher(f.Path(), logger)
			if err == nil {
				prefsWatcher.SetChangeCallback(func() {
					glib.IdleAdd(provider.SyncFromStore)
				})
				err = prefsWatcher.Start()
			}
			if err != nil {
				logger.Warn("failed to watch preferences file", "error", err)
			}
		}

		configWatcher = config.NewWatcher(configPath, logger)
		configWatcher.SetReloadCallback(func(next *config.Config) {
			glib.IdleAdd(func() {
				provider.Reconfigure(ctx, next.ThemeOptions())
				if err := loader.Reconfigure(provider.Config()); err != nil {
					logger.Warn("failed to re-render stylesheet", "error", err)
				}
			})
		})
		if err := configWatcher.Start(ctx, cfg); err != nil {
			logger.Warn("failed to watch config file", "error", err)
		}

		w.win.Present()
		logger.Info("themectl-gtk ready", "mode", h.Mode(), "resolved", h.Resolved())
	})

	app.ConnectShutdown(func() {
		if configWatcher != nil {
			configWatcher.Stop()
		}
		if prefsWatcher != nil {
			_ = prefsWatcher.Stop()
		}
		if loader != nil {
			loader.StopHotReload()
		}
		if provider != nil {
			provider.Close()
		}
	})

	return app.Run([]string{os.Args[0]})
}

func buildWindow(app *adw.Application) *window {
	win := adw.NewApplicationWindow(&app.Application)
	win.SetTitle("themestate")
	win.SetDefaultSize(360, 240)

	label := gtk.NewLabel("")
	label.AddCSSClass("mode-label")
	label.AddCSSClass("title-2")

	box := gtk.NewBox(gtk.OrientationVertical, 12)
	box.AddCSSClass("themed")
	box.SetMarginTop(24)
	box.SetMarginBottom(24)
	box.SetMarginStart(24)
	box.SetMarginEnd(24)
	box.Append(label)

	win.SetContent(box)
	return &window{win: win, box: box, label: label}
}

// connectControls adds the mode buttons. The handle is resolved from ctx
// the same way any nested component would reach it.
func connectControls(w *window, ctx context.Context) {
	h := theme.MustFromContext(ctx)

	buttons := gtk.NewBox(gtk.OrientationHorizontal, 6)
	buttons.SetHAlign(gtk.AlignCenter)

	for _, m := range model.ValidModes() {
		btn := gtk.NewButtonWithLabel(string(m))
		btn.ConnectClicked(func() {
			h.SetMode(m)
		})
		buttons.Append(btn)
	}

	toggle := gtk.NewButtonWithLabel("Cycle")
	toggle.AddCSSClass("suggested-action")
	toggle.ConnectClicked(h.ToggleMode)
	buttons.Append(toggle)

	w.box.Append(buttons)
}

// followChanges updates the window for every change event until the
// session closes.
func followChanges(h *theme.Handle, w *window) {
	for ev := range h.Subscribe() {
		st := ev.Current
		glib.IdleAdd(func() {
			w.update(st)
		})
	}
}

func (w *window) update(st theme.State) {
	text := fmt.Sprintf("%s → %s", st.Mode, st.Resolved)
	if st.Mode == model.ModeSystem {
		text = fmt.Sprintf("system (%s) → %s", st.System, st.Resolved)
	}
	w.label.SetText(text)
}
