package jma

import (
	"sync"

	"github.com/couchcryptid/rain-nowcast/internal/domain"
)

// defaultCacheSize covers two full six-hour windows of half-hourly slices.
const defaultCacheSize = 12

// TileCache is a thread-safe fixed-size FIFO cache of tile observations.
// Eviction is strictly by insertion order; lookups never promote an entry.
// Duplicate keys are permitted so a failed observation can be shadowed by a
// later successful one without disturbing eviction order.
type TileCache struct {
	mu      sync.Mutex
	entries []domain.TileObservation
	size    int
}

// NewTileCache creates a cache holding at most size observations. Sizes of
// zero or less fall back to the default.
func NewTileCache(size int) *TileCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	return &TileCache{
		entries: make([]domain.TileObservation, 0, size),
		size:    size,
	}
}

// Search returns the oldest cached observation for key, if any.
func (c *TileCache) Search(key domain.SliceKey) (domain.TileObservation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, obs := range c.entries {
		if obs.Key == key {
			return obs, true
		}
	}
	return domain.TileObservation{}, false
}

// Push appends an observation, evicting the oldest entry when full.
func (c *TileCache) Push(obs domain.TileObservation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.size {
		c.entries = c.entries[1:]
	}
	c.entries = append(c.entries, obs)
}

// Len reports the number of cached observations.
func (c *TileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the cached keys in insertion order, oldest first.
func (c *TileCache) Keys() []domain.SliceKey {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]domain.SliceKey, 0, len(c.entries))
	for _, obs := range c.entries {
		keys = append(keys, obs.Key)
	}
	return keys
}
