package texture

import (
	"image"
	"path/filepath"
	"sync"
)

// Cache is a concurrency-safe Loader that decodes each path once.
// Failed loads are cached too.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	next  Loader
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

var _ Loader = (*Cache)(nil)

// NewCache wraps next.
func NewCache(next Loader) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		next:  next,
	}
}

// Load returns the cached image for path, loading it on first use.
// The returned image is shared; callers must not modify it.
func (c *Cache) Load(path string) (*image.NRGBA, error) {
	key := filepath.Clean(path)

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[key]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	img, err := c.next.Load(key)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[key]; exists {
		return entry.img, entry.err
	}
	c.items[key] = &cacheEntry{img: img, err: err}
	return img, err
}

// Len returns the number of cached paths.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
