package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, content string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestWatcher_ReloadsValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	start := time.Now().Add(-time.Hour)
	writeConfig(t, path, "[theme]\ndefault_mode = \"light\"\n", start)

	w := NewWatcher(path, nil)
	w.SetPollInterval(10 * time.Millisecond)

	reloaded := make(chan *Config, 1)
	w.SetReloadCallback(func(cfg *Config) { reloaded <- cfg })

	require.NoError(t, w.Start(context.Background(), DefaultConfig()))
	defer w.Stop()

	writeConfig(t, path, "[theme]\ndark_class = \"night\"\n", start.Add(time.Minute))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "night", cfg.Theme.DarkClass)
		assert.Equal(t, cfg, w.Current())
	case <-time.After(2 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestWatcher_KeepsLastValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	start := time.Now().Add(-time.Hour)
	writeConfig(t, path, "", start)

	w := NewWatcher(path, nil)
	w.SetPollInterval(10 * time.Millisecond)

	failed := make(chan error, 1)
	w.SetErrorCallback(func(err error) { failed <- err })
	w.SetReloadCallback(func(*Config) { t.Error("invalid config must not be reloaded") })

	initial := DefaultConfig()
	require.NoError(t, w.Start(context.Background(), initial))
	defer w.Stop()

	writeConfig(t, path, "[observer]\nbackend = \"x11\"\n", start.Add(time.Minute))

	select {
	case err := <-failed:
		assert.Error(t, err)
		assert.Same(t, initial, w.Current())
	case <-time.After(2 * time.Second):
		t.Fatal("error callback was not called")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "config.toml"), nil)
	require.NoError(t, w.Start(context.Background(), DefaultConfig()))

	w.Stop()
	w.Stop()
}
