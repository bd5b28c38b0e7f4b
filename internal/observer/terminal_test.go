package observer

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal_PrefersDarkUsesDetector(t *testing.T) {
	term := NewTerminal(nil)
	term.SetDetector(func() (bool, error) { return true, nil })

	dark, err := term.PrefersDark(context.Background())
	require.NoError(t, err)
	assert.True(t, dark)
}

func TestTerminal_WithoutTerminalIsUnsupported(t *testing.T) {
	term := NewTerminal(nil)
	term.SetDetector(func() (bool, error) { return false, ErrUnsupported })
	term.SetPollInterval(5 * time.Millisecond)

	_, err := term.PrefersDark(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)

	cancel, err := term.Subscribe(func(bool) { t.Error("unexpected change") })
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Nil(t, cancel)
}

func TestDetectStdout_NotATerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	dark, err := detectStdout()
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.False(t, dark)
}

func TestTerminal_PollSkipsFailedChecks(t *testing.T) {
	term := NewTerminal(nil)
	term.SetPollInterval(5 * time.Millisecond)

	var calls atomic.Int32
	term.SetDetector(func() (bool, error) {
		n := calls.Add(1)
		switch {
		case n == 1:
			return false, nil
		case n < 4:
			return false, ErrUnsupported
		default:
			return true, nil
		}
	})

	changes := make(chan bool, 4)
	cancel, err := term.Subscribe(func(d bool) { changes <- d })
	require.NoError(t, err)
	defer cancel()

	select {
	case d := <-changes:
		assert.True(t, d)
	case <-time.After(time.Second):
		t.Fatal("no change reported")
	}
}

func TestTerminal_NoPollingNeverFires(t *testing.T) {
	term := NewTerminal(nil)
	var probes atomic.Int32
	term.SetDetector(func() (bool, error) {
		probes.Add(1)
		return false, nil
	})

	cancel, err := term.Subscribe(func(bool) { t.Error("unexpected change") })
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	cancel()

	assert.Equal(t, int32(0), probes.Load())
}

func TestTerminal_PollReportsOnlyFlips(t *testing.T) {
	term := NewTerminal(nil)
	term.SetPollInterval(5 * time.Millisecond)

	var dark atomic.Bool
	term.SetDetector(func() (bool, error) { return dark.Load(), nil })

	var mu sync.Mutex
	var got []bool
	cancel, err := term.Subscribe(func(d bool) {
		mu.Lock()
		got = append(got, d)
		mu.Unlock()
	})
	require.NoError(t, err)

	// Several ticks without a flip
	time.Sleep(30 * time.Millisecond)
	dark.Store(true)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	cancel()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true}, got)
}
