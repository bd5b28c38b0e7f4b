package store

import (
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_DetectsExternalWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	var calls atomic.Int32
	w.SetChangeCallback(func() { calls.Add(1) })
	require.NoError(t, w.Start())
	defer w.Stop()

	// Another process writes the preference
	require.NoError(t, NewFile(path).Set("theme", "dark"))

	assert.Eventually(t, func() bool {
		return calls.Load() > 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preferences.json")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	var calls atomic.Int32
	w.SetChangeCallback(func() { calls.Add(1) })
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, NewFile(filepath.Join(dir, "other.json")).Set("theme", "dark"))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "preferences.json"), nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
