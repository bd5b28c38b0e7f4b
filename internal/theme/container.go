package theme

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/themestate/internal/model"
)

// State is a snapshot of a theme session.
type State struct {
	Mode     model.Mode       `json:"mode" yaml:"mode"`
	System   model.Appearance `json:"system" yaml:"system"`
	Resolved model.Appearance `json:"resolved" yaml:"resolved"`
}

// newState builds a State, deriving Resolved from its inputs.
func newState(mode model.Mode, system model.Appearance) State {
	return State{
		Mode:     mode,
		System:   system,
		Resolved: model.Resolve(mode, system),
	}
}

// Cause identifies what produced a change event.
type Cause string

const (
	CauseInit     Cause = "init"     // provider mounted
	CauseMode     Cause = "mode"     // SetMode or ToggleMode
	CauseSystem   Cause = "system"   // OS preference flipped
	CauseConfig   Cause = "config"   // provider reconfigured
	CauseExternal Cause = "external" // another process changed the stored mode
)

// ChangeEvent is published after every state transition.
type ChangeEvent struct {
	ID       string    `json:"id" yaml:"id"`
	Cause    Cause     `json:"cause" yaml:"cause"`
	Previous State     `json:"previous" yaml:"previous"`
	Current  State     `json:"current" yaml:"current"`
	At       time.Time `json:"at" yaml:"at"`
}

// ResolvedChanged reports whether the effective appearance changed.
func (e ChangeEvent) ResolvedChanged() bool {
	return e.Previous.Resolved != e.Current.Resolved
}

// Listener is called synchronously for each change event, while the
// container is locked. Listeners must not call back into the container.
type Listener func(ChangeEvent)

// Container owns the session state and publishes every transition.
type Container struct {
	mu     sync.Mutex
	mode   model.Mode
	system model.Appearance

	listeners   []Listener
	subscribers []chan ChangeEvent
	closed      bool

	// Incremented by every SetSystem call
	systemSeq uint64
}

// NewContainer creates a Container with the given initial state.
func NewContainer(mode model.Mode, system model.Appearance) *Container {
	if system == "" {
		system = model.AppearanceLight
	}
	return &Container{
		mode:        mode,
		system:      system,
		subscribers: make([]chan ChangeEvent, 0),
	}
}

// State returns the current state. Resolved is recomputed on every call.
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return newState(c.mode, c.system)
}

// SetMode replaces the selected mode. The value is not validated.
func (c *Container) SetMode(m model.Mode) {
	c.setMode(m, CauseMode)
}

// ToggleMode advances the selected mode along light -> dark -> system.
func (c *Container) ToggleMode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transition(CauseMode, func() {
		c.mode = model.Next(c.mode)
	})
}

// SetSystem records the appearance observed from the operating system.
func (c *Container) SetSystem(a model.Appearance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.systemSeq++
	c.transition(CauseSystem, func() {
		c.system = a
	})
}

// systemVersion returns the SetSystem counter, for use with adoptSystem.
func (c *Container) systemVersion() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.systemSeq
}

// adoptSystem records a queried appearance unless SetSystem ran after
// version was read, in which case the pushed value is newer and is kept.
// With publish false the state changes without an event.
func (c *Container) adoptSystem(a model.Appearance, version uint64, publish bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.systemSeq != version {
		return
	}
	if !publish {
		c.system = a
		return
	}
	c.transition(CauseSystem, func() {
		c.system = a
	})
}

func (c *Container) setMode(m model.Mode, cause Cause) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transition(cause, func() {
		c.mode = m
	})
}

// Notify publishes an event for the current state without changing it.
func (c *Container) Notify(cause Cause) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	cur := newState(c.mode, c.system)
	c.publish(cause, cur, cur)
}

// transition applies fn and publishes the result if the state changed.
// Callers hold c.mu.
func (c *Container) transition(cause Cause, fn func()) {
	if c.closed {
		return
	}

	prev := newState(c.mode, c.system)
	fn()
	cur := newState(c.mode, c.system)
	if prev == cur {
		return
	}
	c.publish(cause, prev, cur)
}

// publish runs listeners in registration order, then feeds subscribers.
func (c *Container) publish(cause Cause, prev, cur State) {
	event := ChangeEvent{
		ID:       ulid.Make().String(),
		Cause:    cause,
		Previous: prev,
		Current:  cur,
		At:       time.Now(),
	}

	for _, l := range c.listeners {
		l(event)
	}

	for _, ch := range c.subscribers {
		select {
		case ch <- event:
		default:
			// Channel full, skip
		}
	}
}

// OnChange registers a synchronous listener.
func (c *Container) OnChange(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Subscribe returns a channel that receives change events.
// Events are dropped for subscribers that fall behind.
func (c *Container) Subscribe() <-chan ChangeEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan ChangeEvent, 10)
	if c.closed {
		close(ch)
		return ch
	}
	c.subscribers = append(c.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (c *Container) Unsubscribe(ch <-chan ChangeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, sub := range c.subscribers {
		if sub == ch {
			c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close stops all further transitions and closes subscriber channels.
func (c *Container) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	for _, ch := range c.subscribers {
		close(ch)
	}
	c.subscribers = nil
	c.listeners = nil
}

// Closed reports whether Close has been called.
func (c *Container) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
