package reconcile

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// TitleCache holds the authoritative record per title for one comparison run.
// Each id is computed at most once; concurrent callers for the same id share
// the in-flight computation.
type TitleCache struct {
	mu      sync.RWMutex
	records map[int]Record
	sf      singleflight.Group
}

// NewTitleCache creates an empty cache.
func NewTitleCache() *TitleCache {
	return &TitleCache{records: make(map[int]Record)}
}

// Get returns the cached record for id.
func (c *TitleCache) Get(id int) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.records[id]
	return r, ok
}

// GetOrCompute returns the cached record for id, computing and storing it
// when absent.
func (c *TitleCache) GetOrCompute(id int, compute func() Record) Record {
	// Fast path
	if r, ok := c.Get(id); ok {
		return r
	}

	v, _, _ := c.sf.Do(strconv.Itoa(id), func() (interface{}, error) {
		// Double-check after acquiring the flight
		if r, ok := c.Get(id); ok {
			return r, nil
		}

		r := compute()

		c.mu.Lock()
		c.records[id] = r
		c.mu.Unlock()

		return r, nil
	})

	return v.(Record)
}

// Len returns the number of cached titles.
func (c *TitleCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
