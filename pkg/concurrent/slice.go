package concurrent

import (
	"iter"
	"slices"
	"sync"
)

// Slice is an append-only list that is safe for concurrent use. Readers
// always see a consistent prefix of what has been appended.
type Slice[V any] struct {
	mu     sync.RWMutex
	values []V
}

func NewSlice[V any]() *Slice[V] {
	return &Slice[V]{}
}

// Append adds values at the end and returns the new length.
func (s *Slice[V]) Append(values ...V) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = append(s.values, values...)
	return len(s.values)
}

func (s *Slice[V]) Length() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}

// Snapshot returns a copy of the current contents.
func (s *Slice[V]) Snapshot() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.values)
}

// Values iterates over a snapshot taken when iteration starts.
func (s *Slice[V]) Values() iter.Seq[V] {
	return slices.Values(s.Snapshot())
}
