// Package store provides the persistent preference store for theme modes.
package store

import (
	"sync"
)

// Store is an origin-scoped key/value string store that survives restarts.
// It is read once when a provider starts and written on every preference change.
type Store interface {
	// Get returns the value stored under key and whether it was present.
	Get(key string) (string, bool, error)

	// Set stores value under key.
	Set(key, value string) error
}

// Memory is an in-process Store. It does not survive restarts.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	writes int
}

// NewMemory creates a Memory store seeded with the given values.
func NewMemory(seed map[string]string) *Memory {
	values := make(map[string]string, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &Memory{values: values}
}

// Get implements Store.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Store.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.writes++
	return nil
}

// Writes returns how many times Set has been called.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Unavailable is a Store for contexts with no persistent storage.
// Every operation fails with ErrUnavailable.
type Unavailable struct{}

// Get implements Store.
func (Unavailable) Get(string) (string, bool, error) {
	return "", false, ErrUnavailable
}

// Set implements Store.
func (Unavailable) Set(string, string) error {
	return ErrUnavailable
}

// Errors
var (
	ErrUnavailable = storeError("preference store is unavailable")
)

type storeError string

func (e storeError) Error() string {
	return string(e)
}
