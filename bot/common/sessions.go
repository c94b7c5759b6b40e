package common

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sessions keeps short-lived game state keyed by a random id that fits in
// a component custom id.
type Sessions[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*sessionEntry[T]
}

type sessionEntry[T any] struct {
	value   T
	expires time.Time
}

// NewSessions creates a store whose entries expire after ttl of inactivity
func NewSessions[T any](ttl time.Duration) *Sessions[T] {
	return &Sessions[T]{ttl: ttl, entries: make(map[string]*sessionEntry[T])}
}

// Add stores value under a new id
func (s *Sessions[T]) Add(value T) string {
	id := uuid.NewString()[:8]
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = &sessionEntry[T]{value: value, expires: time.Now().Add(s.ttl)}
	return id
}

// Get returns the live value for id and extends its lifetime
func (s *Sessions[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok || time.Now().After(entry.expires) {
		delete(s.entries, id)
		var zero T
		return zero, false
	}
	entry.expires = time.Now().Add(s.ttl)
	return entry.value, true
}

// Delete removes id
func (s *Sessions[T]) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Cleanup drops expired entries and returns how many were removed
func (s *Sessions[T]) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, entry := range s.entries {
		if now.After(entry.expires) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries
func (s *Sessions[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
