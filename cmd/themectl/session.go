package main

import (
	"context"
	"fmt"

	"github.com/jmylchreest/themestate/internal/model"
	"github.com/jmylchreest/themestate/internal/observer"
	"github.com/jmylchreest/themestate/internal/sink"
	"github.com/jmylchreest/themestate/internal/store"
	"github.com/jmylchreest/themestate/internal/theme"
)

// session is a provider wired to the preferences file, the OS observer and
// an in-memory root class set.
type session struct {
	provider *theme.Provider
	root     *sink.ClassSet
	store    store.Store
	observer observer.Observer
}

// openSession starts a provider from the loaded configuration. Extra classes
// seed the root class set.
func openSession(ctx context.Context, seed ...string) (*session, error) {
	obs, err := newObserver(ctx)
	if err != nil {
		return nil, err
	}

	s := &session{
		root:     sink.NewClassSet(seed...),
		store:    store.Open(cfg.StorePath()),
		observer: obs,
	}
	s.provider = theme.NewProvider(ctx, theme.ProviderOptions{
		DefaultMode: cfg.DefaultMode(),
		Options:     cfg.ThemeOptions(),
		Store:       s.store,
		Sink:        s.root,
		Observer:    obs,
		Logger:      logger,
	})
	return s, nil
}

// newObserver returns the --os override or the configured backend.
func newObserver(ctx context.Context) (observer.Observer, error) {
	if globalOpts.osOverride != "" {
		a, err := model.ParseAppearance(globalOpts.osOverride)
		if err != nil {
			return nil, err
		}
		return observer.NewManual(a.IsDark()), nil
	}

	obs, err := observer.Detect(ctx, cfg.Observer.Backend, observer.DetectOptions{
		PollInterval: cfg.Observer.PollInterval.Duration(),
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start %s observer: %w", cfg.Observer.Backend, err)
	}
	return obs, nil
}

// file returns the preferences file store, or nil if the store is not file backed.
func (s *session) file() *store.File {
	f, _ := s.store.(*store.File)
	return f
}

// Close ends the provider and releases the observer.
func (s *session) Close() {
	s.provider.Close()
	if err := observer.Close(s.observer); err != nil {
		logger.Debug("failed to close observer", "error", err)
	}
}
