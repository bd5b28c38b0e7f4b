// Package observer reports whether the operating system prefers a dark appearance.
package observer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Observer is a subscribable "OS prefers dark" signal.
type Observer interface {
	// PrefersDark queries the current preference.
	PrefersDark(ctx context.Context) (bool, error)

	// Subscribe registers fn to be called whenever the preference flips.
	// The returned cancel func releases the subscription; calling it more
	// than once is safe.
	Subscribe(fn func(dark bool)) (cancel func(), err error)
}

// Backend names accepted by Detect.
const (
	BackendAuto     = "auto"
	BackendPortal   = "portal"
	BackendTerminal = "terminal"
	BackendNone     = "none"
)

// ValidBackends returns all valid backend names.
func ValidBackends() []string {
	return []string{BackendAuto, BackendPortal, BackendTerminal, BackendNone}
}

// DetectOptions tunes Detect.
type DetectOptions struct {
	PollInterval time.Duration // Terminal backend only; 0 disables polling
	ProbeTimeout time.Duration // Portal availability probe for auto
	Logger       *slog.Logger
}

// Detect builds the observer for backend.
// "auto" prefers the desktop portal and falls back to the terminal probe.
func Detect(ctx context.Context, backend string, opts DetectOptions) (Observer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ProbeTimeout == 0 {
		opts.ProbeTimeout = 500 * time.Millisecond
	}

	newTerminal := func() Observer {
		t := NewTerminal(logger)
		t.SetPollInterval(opts.PollInterval)
		return t
	}

	switch backend {
	case BackendPortal:
		p, err := NewPortal(logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case BackendTerminal:
		return newTerminal(), nil
	case BackendNone:
		return None{}, nil
	case BackendAuto, "":
		p, err := NewPortal(logger)
		if err != nil {
			logger.Debug("desktop portal unavailable, using terminal probe", "error", err)
			return newTerminal(), nil
		}
		probeCtx, cancel := context.WithTimeout(ctx, opts.ProbeTimeout)
		defer cancel()
		if _, err := p.PrefersDark(probeCtx); err != nil {
			logger.Debug("desktop portal has no color-scheme, using terminal probe", "error", err)
			_ = p.Close()
			return newTerminal(), nil
		}
		return p, nil
	default:
		return nil, fmt.Errorf("invalid observer backend %q, must be one of: %v", backend, ValidBackends())
	}
}

// Close releases o if it holds resources.
func Close(o Observer) error {
	if c, ok := o.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// None is an Observer for contexts with no preference source.
type None struct{}

// PrefersDark implements Observer.
func (None) PrefersDark(context.Context) (bool, error) {
	return false, ErrUnsupported
}

// Subscribe implements Observer.
func (None) Subscribe(func(bool)) (func(), error) {
	return nil, ErrUnsupported
}

// Manual is an in-process Observer whose preference is set by the caller.
// It backs tests, the --os override and headless environments.
type Manual struct {
	mu         sync.Mutex
	dark       bool
	subs       map[int]func(bool)
	nextID     int
	subscribes int
	cancels    int
}

// NewManual creates a Manual observer reporting dark.
func NewManual(dark bool) *Manual {
	return &Manual{
		dark: dark,
		subs: make(map[int]func(bool)),
	}
}

// PrefersDark implements Observer.
func (m *Manual) PrefersDark(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dark, nil
}

// Subscribe implements Observer.
func (m *Manual) Subscribe(fn func(bool)) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.subscribes++

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs, id)
			m.cancels++
		})
	}, nil
}

// Set changes the preference and notifies subscribers if it flipped.
// Subscribers are called synchronously, outside the observer's lock.
func (m *Manual) Set(dark bool) {
	m.mu.Lock()
	if m.dark == dark {
		m.mu.Unlock()
		return
	}
	m.dark = dark
	subs := make([]func(bool), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(dark)
	}
}

// Subscribers returns the number of active subscriptions.
func (m *Manual) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// Counts returns how many times Subscribe and cancel have been called.
func (m *Manual) Counts() (subscribes, cancels int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subscribes, m.cancels
}

// Errors
var (
	ErrUnsupported = observerError("no operating system preference source")
)

type observerError string

func (e observerError) Error() string {
	return string(e)
}
