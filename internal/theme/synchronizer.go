package theme

import (
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/jmylchreest/themestate/internal/model"
	"github.com/jmylchreest/themestate/internal/sink"
	"github.com/jmylchreest/themestate/internal/store"
)

// Synchronizer mirrors state onto the sink and the store.
// Either side may be nil, in which case that side is skipped.
type Synchronizer struct {
	mu     sync.Mutex
	cfg    Config
	sink   sink.Sink
	store  store.Store
	logger *slog.Logger

	// Last synced pair; runs are skipped when neither changed
	synced       bool
	lastMode     model.Mode
	lastResolved model.Appearance

	// Class applied by the previous run, removed even if the config renamed it
	applied string
}

// NewSynchronizer creates a Synchronizer for the given targets.
func NewSynchronizer(cfg Config, sk sink.Sink, st store.Store, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{
		cfg:    cfg,
		sink:   sk,
		store:  st,
		logger: logger,
	}
}

// SetConfig replaces the configuration used by later runs.
func (s *Synchronizer) SetConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

// Handle is the container listener. It runs the effect on mount, on config
// changes, and whenever the selected mode or resolved appearance changed.
func (s *Synchronizer) Handle(ev ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	force := ev.Cause == CauseInit || ev.Cause == CauseConfig
	if !force && s.synced &&
		ev.Current.Mode == s.lastMode && ev.Current.Resolved == s.lastResolved {
		return
	}
	s.apply(ev.Current)
}

// Apply runs the effect for state unconditionally.
func (s *Synchronizer) Apply(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(state)
}

func (s *Synchronizer) apply(state State) {
	if b, ok := s.sink.(sink.Batcher); ok {
		b.Batch(func(sk sink.Sink) { s.run(sk, state) })
	} else {
		s.run(s.sink, state)
	}
}

// run performs the five steps against sk, which may be nil.
func (s *Synchronizer) run(sk sink.Sink, state State) {
	cfg := s.cfg
	suppress := cfg.DisableTransitionOnChange && sk != nil

	if sk != nil {
		// 1. Freeze transitions before touching any marker
		if suppress {
			sk.AddClass(NoTransitionsClass)
		}

		// 2. Clear every marker, whichever is present
		markers := cfg.MarkerClasses()
		for _, class := range markers {
			sk.RemoveClass(class)
		}
		if s.applied != "" && !slices.Contains(markers, s.applied) {
			sk.RemoveClass(s.applied)
		}

		// 3. Exactly one marker; the system class is never applied
		class := cfg.ClassFor(state.Resolved)
		sk.AddClass(class)
		s.applied = class
	}

	// 4. Persist the selection, not the resolved appearance
	if s.store != nil {
		if err := s.store.Set(cfg.StorageKey, string(state.Mode)); err != nil {
			if errors.Is(err, store.ErrUnavailable) {
				s.logger.Debug("preference store unavailable, not persisting", "key", cfg.StorageKey)
			} else {
				s.logger.Warn("failed to persist theme mode", "key", cfg.StorageKey, "error", err)
			}
		}
	}

	// 5. Flush styles with transitions off, then re-enable them
	if suppress {
		sk.Commit()
		sk.RemoveClass(NoTransitionsClass)
	}

	s.synced = true
	s.lastMode = state.Mode
	s.lastResolved = state.Resolved

	s.logger.Debug("theme synchronized",
		"mode", state.Mode,
		"resolved", state.Resolved,
		"class", cfg.ClassFor(state.Resolved))
}
