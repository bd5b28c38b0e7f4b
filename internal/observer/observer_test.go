package observer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Observer = None{}
	_ Observer = (*Manual)(nil)
	_ Observer = (*Terminal)(nil)
	_ Observer = (*Portal)(nil)
)

func TestManual_SetNotifiesOnFlip(t *testing.T) {
	m := NewManual(false)

	var got []bool
	cancel, err := m.Subscribe(func(dark bool) { got = append(got, dark) })
	require.NoError(t, err)
	defer cancel()

	m.Set(true)
	m.Set(true) // no flip
	m.Set(false)

	assert.Equal(t, []bool{true, false}, got)

	dark, err := m.PrefersDark(context.Background())
	require.NoError(t, err)
	assert.False(t, dark)
}

func TestManual_CancelIsIdempotent(t *testing.T) {
	m := NewManual(false)

	calls := 0
	cancel, err := m.Subscribe(func(bool) { calls++ })
	require.NoError(t, err)
	assert.Equal(t, 1, m.Subscribers())

	cancel()
	cancel()
	assert.Equal(t, 0, m.Subscribers())

	subs, cancels := m.Counts()
	assert.Equal(t, 1, subs)
	assert.Equal(t, 1, cancels)

	m.Set(true)
	assert.Equal(t, 0, calls)
}

func TestNone(t *testing.T) {
	_, err := None{}.PrefersDark(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)

	cancel, err := None{}.Subscribe(func(bool) {})
	assert.Nil(t, cancel)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDetect_Backends(t *testing.T) {
	o, err := Detect(context.Background(), BackendNone, DetectOptions{})
	require.NoError(t, err)
	assert.IsType(t, None{}, o)

	o, err = Detect(context.Background(), BackendTerminal, DetectOptions{})
	require.NoError(t, err)
	assert.IsType(t, &Terminal{}, o)

	_, err = Detect(context.Background(), "wayland", DetectOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid observer backend")
}

func TestDetect_AutoWithoutSessionBus(t *testing.T) {
	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "unix:path=/nonexistent/bus")

	o, err := Detect(context.Background(), BackendAuto, DetectOptions{})
	require.NoError(t, err)
	assert.IsType(t, &Terminal{}, o)
}

func TestClose(t *testing.T) {
	assert.NoError(t, Close(NewManual(false)))
	assert.NoError(t, Close(None{}))
}
