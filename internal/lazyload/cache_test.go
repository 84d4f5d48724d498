package lazyload

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadCacheMarkAndHas(t *testing.T) {
	cache := NewLoadCache()

	assert.False(t, cache.Has("http://example/a.jpg"))

	cache.MarkLoaded("http://example/a.jpg")
	assert.True(t, cache.Has("http://example/a.jpg"))
	assert.False(t, cache.Has("http://example/b.jpg"))

	// Idempotent.
	cache.MarkLoaded("http://example/a.jpg")
	assert.Equal(t, 1, cache.Len())
}

func TestLoadCacheConcurrentControllers(t *testing.T) {
	cache := NewLoadCache()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("asset-%d", i%8)
			cache.MarkLoaded(id)
			cache.Has(id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, cache.Len())
}
