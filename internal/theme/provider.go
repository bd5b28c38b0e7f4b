package theme

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jmylchreest/themestate/internal/model"
	"github.com/jmylchreest/themestate/internal/observer"
	"github.com/jmylchreest/themestate/internal/sink"
	"github.com/jmylchreest/themestate/internal/store"
)

// ProviderOptions configures a Provider.
type ProviderOptions struct {
	DefaultMode model.Mode // used when the store has no valid entry; light if empty
	Options     Options

	Store    store.Store       // nil = in-memory only
	Sink     sink.Sink         // nil = no presentation target
	Observer observer.Observer // nil = OS preference unavailable
	Logger   *slog.Logger
}

// Provider owns one theme session: state, synchronization and the OS
// preference subscription.
type Provider struct {
	mu     sync.Mutex
	cfg    Config
	logger *slog.Logger

	defaultMode model.Mode
	store       store.Store
	observer    observer.Observer

	container *Container
	sync      *Synchronizer
	handle    *Handle

	// Active OS subscription; nil when not following the system
	cancelObserver func()
	closed         bool
}

// NewProvider starts a theme session. The initial mode comes from the store
// when it holds a valid mode, otherwise from DefaultMode. The synchronization
// effect has run once by the time NewProvider returns.
func NewProvider(ctx context.Context, opts ProviderOptions) *Provider {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	def := opts.DefaultMode
	if def == "" {
		def = DefaultMode
	}

	cfg := Merge(opts.Options)

	p := &Provider{
		cfg:         cfg,
		logger:      logger,
		defaultMode: def,
		store:       opts.Store,
		observer:    opts.Observer,
	}

	initial := p.readStoredMode(cfg.StorageKey)

	p.container = NewContainer(initial, model.AppearanceLight)
	p.sync = NewSynchronizer(cfg, opts.Sink, opts.Store, logger)
	p.container.OnChange(p.sync.Handle)
	p.handle = &Handle{p: p}

	// Subscribe before querying so a flip in between is not lost
	if cfg.FollowSystemTheme {
		p.followSystem(ctx, false)
	}

	p.container.Notify(CauseInit)

	logger.Debug("theme provider started",
		"mode", initial,
		"system", p.container.State().System,
		"follow_system", cfg.FollowSystemTheme)

	return p
}

// readStoredMode returns the stored mode, or the default when it is missing,
// invalid or the store cannot be read.
func (p *Provider) readStoredMode(key string) model.Mode {
	if p.store == nil {
		return p.defaultMode
	}

	v, ok, err := p.store.Get(key)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			p.logger.Debug("preference store unavailable, using default", "mode", p.defaultMode)
		} else {
			p.logger.Warn("failed to read theme preference, using default", "key", key, "error", err)
		}
		return p.defaultMode
	}
	if !ok {
		return p.defaultMode
	}

	m := model.Mode(v)
	if !model.ModeValid(m) {
		p.logger.Warn("ignoring invalid stored theme mode", "key", key, "value", v, "default", p.defaultMode)
		return p.defaultMode
	}
	return m
}

// querySystem asks the observer for the current preference.
func (p *Provider) querySystem(ctx context.Context) (bool, bool) {
	if p.observer == nil {
		return false, false
	}
	dark, err := p.observer.PrefersDark(ctx)
	if err != nil {
		p.logger.Debug("os preference unavailable", "error", err)
		return false, false
	}
	return dark, true
}

// followSystem subscribes to OS changes, then adopts the queried
// preference unless a pushed change already arrived. publish controls
// whether adopting the query emits a system event.
func (p *Provider) followSystem(ctx context.Context, publish bool) {
	version := p.container.systemVersion()
	p.subscribeSystem()
	if dark, ok := p.querySystem(ctx); ok {
		p.container.adoptSystem(model.AppearanceFromDark(dark), version, publish)
	}
}

// subscribeSystem registers the OS subscription. Callers ensure none is active.
func (p *Provider) subscribeSystem() {
	if p.observer == nil {
		return
	}
	cancel, err := p.observer.Subscribe(func(dark bool) {
		p.container.SetSystem(model.AppearanceFromDark(dark))
	})
	if err != nil {
		p.logger.Debug("os preference changes unavailable", "error", err)
		return
	}
	p.cancelObserver = cancel
}

// unsubscribeSystem releases the OS subscription if one is active.
func (p *Provider) unsubscribeSystem() {
	if p.cancelObserver == nil {
		return
	}
	p.cancelObserver()
	p.cancelObserver = nil
}

// Handle returns the consumer handle for this provider.
func (p *Provider) Handle() *Handle {
	return p.handle
}

// Context returns a child of parent that carries this provider's handle.
func (p *Provider) Context(parent context.Context) context.Context {
	return NewContext(parent, p.handle)
}

// Config returns the merged configuration.
func (p *Provider) Config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

// Reconfigure re-merges opts over the defaults and re-runs the
// synchronization effect. Changing FollowSystemTheme registers or releases
// the OS subscription; leaving it unchanged keeps the current one.
func (p *Provider) Reconfigure(ctx context.Context, opts Options) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	prev := p.cfg
	cfg := Merge(opts)
	p.cfg = cfg
	p.sync.SetConfig(cfg)

	if cfg.FollowSystemTheme != prev.FollowSystemTheme {
		if cfg.FollowSystemTheme {
			p.followSystem(ctx, true)
		} else {
			p.unsubscribeSystem()
		}
	}

	p.container.Notify(CauseConfig)
	p.logger.Debug("theme provider reconfigured", "follow_system", cfg.FollowSystemTheme)
}

// SyncFromStore re-reads the stored mode and adopts it if it is valid and
// differs from the current selection. It is how changes written by other
// processes reach this session.
func (p *Provider) SyncFromStore() {
	p.mu.Lock()
	key := p.cfg.StorageKey
	closed := p.closed
	p.mu.Unlock()

	if closed || p.store == nil {
		return
	}

	v, ok, err := p.store.Get(key)
	if err != nil || !ok {
		return
	}
	m := model.Mode(v)
	if !model.ModeValid(m) {
		p.logger.Debug("ignoring invalid external theme mode", "value", v)
		return
	}
	p.container.setMode(m, CauseExternal)
}

// Close releases the OS subscription and ends the session.
// Handles obtained from this provider stop resolving through contexts.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.unsubscribeSystem()
	p.container.Close()
	p.logger.Debug("theme provider closed")
}

// Closed reports whether Close has been called.
func (p *Provider) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
