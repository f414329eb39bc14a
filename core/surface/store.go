package surface

import (
	"sync"

	"diffing-research/core/diff"
)

// DataSource supplies the rows a view renders.
type DataSource[T any] interface {
	// Snapshot returns the current data. Callers must not mutate it.
	Snapshot() diff.Snapshot[T]
}

// BackingStore holds the snapshot currently presented by a view.
type BackingStore[T any] struct {
	mu   sync.RWMutex
	data diff.Snapshot[T]
}

// NewBackingStore creates a store holding initial.
func NewBackingStore[T any](initial diff.Snapshot[T]) *BackingStore[T] {
	return &BackingStore[T]{data: initial}
}

// Set replaces the stored snapshot.
func (s *BackingStore[T]) Set(data diff.Snapshot[T]) {
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

// Snapshot returns the stored snapshot.
func (s *BackingStore[T]) Snapshot() diff.Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}
