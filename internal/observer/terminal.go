package observer

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// Terminal infers the preference from the terminal background color.
// Terminals do not push background changes, so subscriptions poll.
type Terminal struct {
	mu     sync.RWMutex
	logger *slog.Logger

	// Probe; detectStdout by default
	detect func() (bool, error)

	// Polling interval (0 = no polling)
	pollInterval time.Duration
}

// NewTerminal creates a Terminal observer that probes via lipgloss.
func NewTerminal(logger *slog.Logger) *Terminal {
	if logger == nil {
		logger = slog.Default()
	}

	return &Terminal{
		logger: logger,
		detect: detectStdout,
	}
}

// detectStdout queries the terminal attached to stdout. A fresh renderer is
// used per call because lipgloss caches the answer per renderer.
func detectStdout() (bool, error) {
	if !term.IsTerminal(os.Stdout.Fd()) {
		return false, ErrUnsupported
	}
	return lipgloss.NewRenderer(os.Stdout).HasDarkBackground(), nil
}

// SetPollInterval sets how often subscriptions re-probe the terminal.
// Probing writes an OSC query to the terminal, so keep this off while a
// full-screen program owns stdin.
func (t *Terminal) SetPollInterval(interval time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pollInterval = interval
}

// SetDetector replaces the background check. A detector returning an error
// reports the preference as unavailable.
func (t *Terminal) SetDetector(detect func() (bool, error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.detect = detect
}

// PrefersDark implements Observer.
func (t *Terminal) PrefersDark(context.Context) (bool, error) {
	t.mu.RLock()
	detect := t.detect
	t.mu.RUnlock()
	return detect()
}

// Subscribe implements Observer. With polling disabled the subscription is
// accepted but never fires. Without a terminal it returns ErrUnsupported.
func (t *Terminal) Subscribe(fn func(dark bool)) (func(), error) {
	t.mu.RLock()
	detect := t.detect
	interval := t.pollInterval
	t.mu.RUnlock()

	if interval <= 0 {
		return func() {}, nil
	}

	last, err := detect()
	if err != nil {
		return nil, err
	}

	p := &poller{
		logger:       t.logger,
		detect:       detect,
		pollInterval: interval,
		onChange:     fn,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
		last:         last,
	}
	go p.watchLoop()
	t.logger.Debug("terminal background poller started", "interval", interval)

	var once sync.Once
	return func() { once.Do(p.stop) }, nil
}

// poller re-probes the terminal on a ticker and reports flips.
type poller struct {
	logger       *slog.Logger
	detect       func() (bool, error)
	pollInterval time.Duration
	onChange     func(bool)
	last         bool

	// Control channels
	stopCh chan struct{}
	doneCh chan struct{}
}

// watchLoop is the main polling loop.
func (p *poller) watchLoop() {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.checkForChanges()
		}
	}
}

// checkForChanges probes once and reports a flip.
func (p *poller) checkForChanges() {
	dark, err := p.detect()
	if err != nil {
		p.logger.Debug("terminal background check failed", "error", err)
		return
	}
	if dark == p.last {
		return
	}
	p.last = dark
	p.logger.Debug("terminal background changed", "dark", dark)
	p.onChange(dark)
}

func (p *poller) stop() {
	close(p.stopCh)
	<-p.doneCh
}
