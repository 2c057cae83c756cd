package brelax

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes labelings by aggregate identity. A labeling is a pure
// function of the hypergraph and the aggregate, so entries never expire.
// Concurrent requests for the same aggregate share a single computation.
type Cache struct {
	mu      sync.RWMutex
	entries map[AggregateID]*Labeling
	group   singleflight.Group
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[AggregateID]*Labeling)}
}

// Get returns the cached labeling for key, if any.
func (c *Cache) Get(key AggregateID) (*Labeling, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.entries[key]
	return l, ok
}

// GetOrCompute returns the cached labeling for key or computes and stores it.
// computed is true only for the caller whose call ran compute. Errors are not
// cached.
func (c *Cache) GetOrCompute(key AggregateID, compute func() (*Labeling, error)) (l *Labeling, computed bool, err error) {
	if l, ok := c.Get(key); ok {
		return l, false, nil
	}

	v, err, _ := c.group.Do(string(key), func() (any, error) {
		if l, ok := c.Get(key); ok {
			return l, nil
		}
		l, err := compute()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = l
		c.mu.Unlock()
		computed = true
		return l, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*Labeling), computed, nil
}

// Len returns the number of cached labelings.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
