// Package gensym issues fresh variable identifiers for function parameters.
//
// A Source hands out a strictly increasing, never repeating sequence of
// identifiers within a session. A Counter has one session for its whole
// life; Sequence.Reset starts a new one. Trees that end up in one query
// must come from one session. Concurrent builders either use their own
// Source or share a Counter, which serializes access through atomic
// operations.
package gensym

import (
	"sync"
	"sync/atomic"
)

// Source issues fresh identifiers.
type Source interface {
	// Next returns an identifier not returned before in the current
	// session. A session lasts for the life of the Source, or until a
	// Sequence is Reset.
	Next() int64
}

// Counter is a Source backed by an atomic counter.
// It is safe for concurrent use. The first call to Next returns start+1.
type Counter struct {
	seq atomic.Int64
}

// NewCounter creates a counter starting at 0.
func NewCounter() *Counter {
	return &Counter{}
}

// NewCounterAt creates a counter whose next identifier is start+1.
// Used to resume numbering above identifiers already present in a tree.
func NewCounterAt(start int64) *Counter {
	c := &Counter{}
	c.seq.Store(start)
	return c
}

// Next returns the next identifier and increments the counter.
func (c *Counter) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last identifier issued without incrementing.
func (c *Counter) Current() int64 {
	return c.seq.Load()
}

// Sequence is a deterministic Source for tests and scenario runs.
//
// Unlike Counter, Sequence can be reset so the same construction produces
// identical identifiers on every run.
type Sequence struct {
	mu    sync.Mutex
	start int64
	seq   int64
}

// NewSequence creates a sequence whose first identifier is start+1.
func NewSequence(start int64) *Sequence {
	return &Sequence{start: start, seq: start}
}

// Next increments and returns the next identifier.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// Current returns the last identifier issued without incrementing.
func (s *Sequence) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Reset rewinds the sequence to its starting point and begins a new
// session: identifiers issued before the reset are issued again, so trees
// built before and after a reset must not be combined.
func (s *Sequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = s.start
}
