// Package handoff provides a single-slot mailbox for passing values from
// worker goroutines to a loop that polls without blocking.
package handoff

import "sync"

// Slot holds at most one pending value. Put replaces whatever is pending, so
// when several producers finish before the consumer polls, the last Put wins.
//
// The zero value is an empty slot ready for use.
type Slot[T any] struct {
	value T
	mu    sync.Mutex
	full  bool
}

// Put deposits v, replacing any pending value.
// Returns true if a pending value was discarded.
func (s *Slot[T]) Put(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := s.full
	s.value = v
	s.full = true
	return replaced
}

// Take removes and returns the pending value. It never blocks; ok is false
// when the slot is empty.
func (s *Slot[T]) Take() (v T, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.full {
		return v, false
	}
	v = s.value
	var zero T
	s.value = zero
	s.full = false
	return v, true
}

// Pending reports whether a value is waiting to be taken.
func (s *Slot[T]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.full
}
