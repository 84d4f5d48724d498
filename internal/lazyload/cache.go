package lazyload

import "sync"

// LoadCache records which resource identifiers have finished loading during
// this session, so an asset shared by several controllers is fetched over the
// network at most once. Entries are written only on success and never evicted
// or expired; the cache lives for the lifetime of the process.
//
// Marking an already-loaded identifier again is a no-op, so concurrent
// controllers need no coordination beyond the internal lock.
type LoadCache struct {
	mu     sync.RWMutex
	loaded map[string]struct{}
}

// NewLoadCache creates an empty load cache. One instance is constructed at
// startup and injected into every fetcher that should share it.
func NewLoadCache() *LoadCache {
	return &LoadCache{loaded: make(map[string]struct{})}
}

// Has reports whether id has already been loaded this session.
func (c *LoadCache) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.loaded[id]
	return ok
}

// MarkLoaded records that id has been loaded. Idempotent.
func (c *LoadCache) MarkLoaded(id string) {
	c.mu.Lock()
	c.loaded[id] = struct{}{}
	c.mu.Unlock()
}

// Len returns the number of loaded identifiers.
func (c *LoadCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.loaded)
}
