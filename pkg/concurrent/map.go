package concurrent

import "sync"

// Map is a map guarded by a RWMutex.
type Map[K comparable, V any] struct {
	mu     sync.RWMutex
	values map[K]V
}

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		values: make(map[K]V),
	}
}

func (m *Map[K, V]) Load(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.values[key]
	return val, ok
}

// Update replaces the value for key with f(current, present) under the write
// lock and returns the stored result. Concurrent updates to the same key are
// serialized, so read-modify-write sequences such as counters never lose writes.
func (m *Map[K, V]) Update(key K, f func(current V, present bool) V) V {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.values[key]
	next := f(current, ok)
	m.values[key] = next
	return next
}
