package gtkui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/themestate/internal/store"
	"github.com/jmylchreest/themestate/internal/theme"
)

// Loader loads stylesheets keyed on the configured marker classes and
// reloads user stylesheets when they change on disk.
type Loader struct {
	mu       sync.Mutex
	logger   *slog.Logger
	provider *gtk.CSSProvider
	dir      string
	name     string
	path     string // empty for bundled stylesheets
	cfg      theme.Config
	watcher  *store.Watcher
}

// NewLoader creates a Loader. User stylesheets are looked up in dir first;
// an empty dir uses StylesheetsDir.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	if dir == "" {
		var err error
		if dir, err = StylesheetsDir(); err != nil {
			logger.Warn("failed to get stylesheets directory", "error", err)
		}
	}

	return &Loader{
		logger:   logger,
		provider: gtk.NewCSSProvider(),
		dir:      dir,
	}
}

// StylesheetsDir returns the directory holding user stylesheets.
func StylesheetsDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "themestate", "stylesheets"), nil
}

// Load loads the named stylesheet for cfg. Resolution order is the user
// directory, then the bundled stylesheets, then the default.
func (l *Loader) Load(name string, cfg theme.Config) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if name == "" {
		name = DefaultStylesheet
	}

	src, path, err := l.resolve(name)
	if err != nil {
		return err
	}

	css, err := Render(name, src, cfg)
	if err != nil {
		return err
	}

	l.provider.LoadFromString(css)
	l.name = name
	l.path = path
	l.cfg = cfg
	l.logger.Info("loaded stylesheet", "name", name, "path", path)
	return nil
}

func (l *Loader) resolve(name string) (src, path string, err error) {
	if l.dir != "" {
		p := filepath.Join(l.dir, name+".css")
		if data, err := os.ReadFile(p); err == nil {
			return string(data), p, nil
		} else if !os.IsNotExist(err) {
			l.logger.Warn("failed to read user stylesheet, trying bundled", "name", name, "error", err)
		}
	}

	if src, ok := GetEmbeddedStylesheet(name); ok {
		return src, "", nil
	}

	l.logger.Warn("stylesheet not found, using default", "name", name)
	src, ok := GetEmbeddedStylesheet(DefaultStylesheet)
	if !ok {
		return "", "", fmt.Errorf("bundled stylesheet %q missing", DefaultStylesheet)
	}
	return src, "", nil
}

// Reconfigure re-renders the current stylesheet for new marker classes.
func (l *Loader) Reconfigure(cfg theme.Config) error {
	l.mu.Lock()
	name := l.name
	l.mu.Unlock()
	return l.Load(name, cfg)
}

// Apply installs the stylesheet on display, or the default display if nil.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply stylesheet")
		return
	}

	gtk.StyleContextAddProviderForDisplay(display, l.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	l.logger.Debug("applied stylesheet to display", "name", l.Current())
}

// StartHotReload watches the current user stylesheet and reloads it on
// change. Bundled stylesheets are not watched.
func (l *Loader) StartHotReload() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path == "" {
		l.logger.Debug("not watching bundled stylesheet", "name", l.name)
		return nil
	}
	if l.watcher != nil {
		_ = l.watcher.Stop()
	}

	w, err := store.NewWatcher(l.path, l.logger)
	if err != nil {
		return err
	}
	w.SetChangeCallback(func() {
		glib.IdleAdd(func() {
			if err := l.Reload(); err != nil {
				l.logger.Warn("failed to reload stylesheet", "error", err)
			}
		})
	})
	if err := w.Start(); err != nil {
		return err
	}
	l.watcher = w
	return nil
}

// StopHotReload stops watching the stylesheet.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher != nil {
		_ = l.watcher.Stop()
		l.watcher = nil
	}
}

// Reload re-reads and re-renders the current stylesheet.
func (l *Loader) Reload() error {
	l.mu.Lock()
	name, cfg := l.name, l.cfg
	l.mu.Unlock()
	return l.Load(name, cfg)
}

// Current returns the name of the loaded stylesheet.
func (l *Loader) Current() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.name
}

// List returns the available stylesheet names, bundled first.
func (l *Loader) List() []string {
	seen := make(map[string]bool)
	var names []string
	for _, name := range ListEmbeddedStylesheets() {
		seen[name] = true
		names = append(names, name)
	}

	if l.dir == "" {
		return names
	}
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		l.logger.Debug("failed to read stylesheets directory", "error", err)
		return names
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".css" {
			continue
		}
		name := entry.Name()[:len(entry.Name())-4]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
