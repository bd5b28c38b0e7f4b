package dbus

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/themestate/internal/model"
	"github.com/jmylchreest/themestate/internal/observer"
	"github.com/jmylchreest/themestate/internal/theme"
)

func newTestServer(t *testing.T, def model.Mode, osDark bool) (*ThemeServer, *theme.Provider) {
	t.Helper()
	p := theme.NewProvider(context.Background(), theme.ProviderOptions{
		DefaultMode: def,
		Observer:    observer.NewManual(osDark),
	})
	t.Cleanup(p.Close)
	return NewThemeServer(p.Handle(), nil), p
}

func TestThemeServer_GetState(t *testing.T) {
	s, _ := newTestServer(t, model.ModeSystem, true)

	mode, system, resolved, dErr := s.GetState()
	require.Nil(t, dErr)
	assert.Equal(t, "system", mode)
	assert.Equal(t, "dark", system)
	assert.Equal(t, "dark", resolved)
}

func TestThemeServer_SetMode(t *testing.T) {
	s, p := newTestServer(t, model.ModeLight, false)

	resolved, dErr := s.SetMode("Dark")
	require.Nil(t, dErr)
	assert.Equal(t, "dark", resolved)
	assert.Equal(t, model.ModeDark, p.Handle().Mode())
}

func TestThemeServer_SetModeRejectsUnknown(t *testing.T) {
	s, p := newTestServer(t, model.ModeLight, false)

	_, dErr := s.SetMode("sepia")
	require.NotNil(t, dErr)
	assert.Equal(t, DBusInterface+".Error.InvalidMode", dErr.Name)
	assert.Equal(t, model.ModeLight, p.Handle().Mode())
}

func TestThemeServer_ToggleMode(t *testing.T) {
	s, _ := newTestServer(t, model.ModeDark, false)

	mode, dErr := s.ToggleMode()
	require.Nil(t, dErr)
	assert.Equal(t, "system", mode)
}

func TestThemeServer_EmitWithoutConnection(t *testing.T) {
	s, _ := newTestServer(t, model.ModeLight, false)

	err := s.EmitStateChanged(theme.ChangeEvent{Cause: theme.CauseMode})
	assert.Error(t, err)
}

func TestThemeServer_FollowStopsWhenSessionCloses(t *testing.T) {
	s, p := newTestServer(t, model.ModeLight, false)
	events := p.Handle().Subscribe()

	done := make(chan struct{})
	go func() {
		s.Follow(events)
		close(done)
	}()

	p.Handle().ToggleMode()
	p.Close()
	<-done
}

func TestThemeServer_StopWhenNotRunning(t *testing.T) {
	s, _ := newTestServer(t, model.ModeLight, false)
	assert.NoError(t, s.Stop())
}

// fakeBus records exports and emitted signals in place of a session bus.
type fakeBus struct {
	exported   map[string]any
	reply      dbus.RequestNameReply
	requestErr error
	released   int
	emitted    []string
}

func newFakeBus(reply dbus.RequestNameReply) *fakeBus {
	return &fakeBus{exported: make(map[string]any), reply: reply}
}

func (b *fakeBus) Export(v any, path dbus.ObjectPath, iface string) error {
	key := string(path) + " " + iface
	if v == nil {
		delete(b.exported, key)
		return nil
	}
	b.exported[key] = v
	return nil
}

func (b *fakeBus) RequestName(string, dbus.RequestNameFlags) (dbus.RequestNameReply, error) {
	return b.reply, b.requestErr
}

func (b *fakeBus) ReleaseName(string) (dbus.ReleaseNameReply, error) {
	b.released++
	return dbus.ReleaseNameReplyReleased, nil
}

func (b *fakeBus) Emit(_ dbus.ObjectPath, name string, _ ...any) error {
	b.emitted = append(b.emitted, name)
	return nil
}

func withBus(s *ThemeServer, bus *fakeBus) {
	s.connect = func() (busConn, error) { return bus, nil }
}

func TestThemeServer_StartExportsAndStopUnexports(t *testing.T) {
	s, p := newTestServer(t, model.ModeLight, false)
	bus := newFakeBus(dbus.RequestNameReplyPrimaryOwner)
	withBus(s, bus)

	require.NoError(t, s.Start())
	assert.Len(t, bus.exported, 2)
	assert.Error(t, s.Start(), "second start is rejected")

	p.Handle().SetMode(model.ModeDark)
	require.NoError(t, s.EmitStateChanged(theme.ChangeEvent{Cause: theme.CauseMode, Current: p.Handle().State()}))
	assert.Equal(t, []string{DBusInterface + ".StateChanged"}, bus.emitted)

	require.NoError(t, s.Stop())
	assert.Empty(t, bus.exported)
	assert.Equal(t, 1, bus.released)
}

func TestThemeServer_StartFailureUnexports(t *testing.T) {
	tests := []struct {
		name string
		bus  *fakeBus
	}{
		{
			name: "name taken",
			bus:  newFakeBus(dbus.RequestNameReplyExists),
		},
		{
			name: "request error",
			bus: func() *fakeBus {
				b := newFakeBus(dbus.RequestNameReplyPrimaryOwner)
				b.requestErr = errors.New("bus went away")
				return b
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, model.ModeLight, false)
			withBus(s, tt.bus)

			assert.Error(t, s.Start())
			assert.Empty(t, tt.bus.exported)

			// Not running, so Stop has nothing to release
			require.NoError(t, s.Stop())
			assert.Zero(t, tt.bus.released)
		})
	}
}
