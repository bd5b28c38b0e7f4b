// Package sink defines presentation targets that carry theme marker classes.
package sink

import (
	"slices"
	"sync"
)

// Sink is the element whose class set selects page-wide styling.
type Sink interface {
	// AddClass adds a marker class. Adding a present class is a no-op.
	AddClass(name string)

	// RemoveClass removes a marker class. Removing an absent class is a no-op.
	RemoveClass(name string)

	// Commit forces the target to compute styles for the current class set.
	Commit()
}

// Batcher is implemented by sinks that can be read concurrently with a
// class swap. Batch runs fn with a Sink whose operations readers observe
// all at once, after fn returns.
type Batcher interface {
	Batch(fn func(Sink))
}

// OpKind identifies a recorded sink operation.
type OpKind string

const (
	OpAdd    OpKind = "add"
	OpRemove OpKind = "remove"
	OpCommit OpKind = "commit"
)

// Op is a single recorded sink operation.
type Op struct {
	Kind  OpKind
	Class string // empty for commits
}

// ClassSet is an in-memory root element. It keeps insertion order and a log
// of operations so callers can inspect exactly how a class swap happened.
type ClassSet struct {
	mu      sync.RWMutex
	classes []string
	ops     []Op
	commits int
}

// NewClassSet creates a ClassSet holding the given classes.
func NewClassSet(classes ...string) *ClassSet {
	c := &ClassSet{}
	for _, name := range classes {
		if !slices.Contains(c.classes, name) {
			c.classes = append(c.classes, name)
		}
	}
	return c
}

// AddClass implements Sink.
func (c *ClassSet) AddClass(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(name)
}

// RemoveClass implements Sink.
func (c *ClassSet) RemoveClass(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(name)
}

// Commit implements Sink.
func (c *ClassSet) Commit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commit()
}

// Batch implements Batcher. The set stays locked while fn runs, so Has and
// Classes never see a partial swap. fn must not call c directly.
func (c *ClassSet) Batch(fn func(Sink)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(heldClassSet{c})
}

func (c *ClassSet) add(name string) {
	c.ops = append(c.ops, Op{Kind: OpAdd, Class: name})
	if !slices.Contains(c.classes, name) {
		c.classes = append(c.classes, name)
	}
}

func (c *ClassSet) remove(name string) {
	c.ops = append(c.ops, Op{Kind: OpRemove, Class: name})
	if i := slices.Index(c.classes, name); i >= 0 {
		c.classes = slices.Delete(c.classes, i, i+1)
	}
}

func (c *ClassSet) commit() {
	c.ops = append(c.ops, Op{Kind: OpCommit})
	c.commits++
}

// heldClassSet is the Sink handed to Batch callbacks; the lock is already held.
type heldClassSet struct {
	c *ClassSet
}

func (h heldClassSet) AddClass(name string)    { h.c.add(name) }
func (h heldClassSet) RemoveClass(name string) { h.c.remove(name) }
func (h heldClassSet) Commit()                 { h.c.commit() }

// Has reports whether name is present.
func (c *ClassSet) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.classes, name)
}

// Classes returns the present classes in insertion order.
func (c *ClassSet) Classes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.classes)
}

// Ops returns the recorded operations.
func (c *ClassSet) Ops() []Op {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.ops)
}

// Commits returns how many times Commit was called.
func (c *ClassSet) Commits() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.commits
}

// ResetOps clears the operation log, keeping the classes.
func (c *ClassSet) ResetOps() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = nil
	c.commits = 0
}
