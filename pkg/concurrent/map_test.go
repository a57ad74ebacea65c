package concurrent

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap_LoadMissing(t *testing.T) {
	m := NewMap[string, int]()

	val, ok := m.Load("a")
	assert.False(t, ok)
	assert.Zero(t, val)
}

func TestMap_Update(t *testing.T) {
	m := NewMap[string, int]()

	got := m.Update("a", func(current int, present bool) int {
		assert.False(t, present)
		return current + 1
	})
	assert.Equal(t, 1, got)

	got = m.Update("a", func(current int, present bool) int {
		assert.True(t, present)
		return current + 1
	})
	assert.Equal(t, 2, got)

	val, ok := m.Load("a")
	assert.True(t, ok)
	assert.Equal(t, 2, val)
}

func TestMap_ConcurrentUpdate(t *testing.T) {
	m := NewMap[string, int64]()

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			for range 20 {
				m.Update("k", func(current int64, _ bool) int64 { return current + 1 })
			}
		})
	}
	wg.Wait()

	val, _ := m.Load("k")
	assert.Equal(t, int64(1000), val)
}
