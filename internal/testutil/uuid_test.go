package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialUUIDSource_Deterministic(t *testing.T) {
	src := NewSequentialUUIDSource()

	assert.Equal(t, "00000000-0000-4000-8000-000000000001", src.NewUUID())
	assert.Equal(t, "00000000-0000-4000-8000-000000000002", src.NewUUID())
	assert.Equal(t, "00000000-0000-4000-8000-000000000003", src.NewUUID())
}

func TestSequentialUUIDSource_Reset(t *testing.T) {
	src := NewSequentialUUIDSource()

	first := src.NewUUID()
	src.NewUUID()
	src.Reset()

	assert.Equal(t, first, src.NewUUID())
}

func TestSequentialUUIDSource_ConcurrentUnique(t *testing.T) {
	src := NewSequentialUUIDSource()

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				u := src.NewUUID()
				mu.Lock()
				seen[u] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 1000)
}

func TestFixedUUIDSource_ReturnsPresetsInOrder(t *testing.T) {
	src := NewFixedUUIDSource("aaa", "bbb")

	assert.Equal(t, "aaa", src.NewUUID())
	assert.Equal(t, "bbb", src.NewUUID())
	assert.Panics(t, func() { src.NewUUID() })
}
