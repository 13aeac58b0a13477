package engine

import (
	"sync"

	"github.com/roach88/epsql/internal/dictionary"
	"github.com/roach88/epsql/internal/ir"
)

// SeriesCache memoizes built series by dictionary entry. Stored and
// returned series are copies, so callers may mutate what they get.
type SeriesCache struct {
	mu     sync.Mutex
	series map[dictionary.EntryID]ir.TimeSeries
	hits   int
	misses int
}

// NewSeriesCache creates an empty cache.
func NewSeriesCache() *SeriesCache {
	return &SeriesCache{series: make(map[dictionary.EntryID]ir.TimeSeries)}
}

// Get returns the cached series for id.
func (c *SeriesCache) Get(id dictionary.EntryID) (ir.TimeSeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts, ok := c.series[id]
	if !ok {
		c.misses++
		return ir.TimeSeries{}, false
	}
	c.hits++
	return ts.Clone(), true
}

// Put stores a series for id, replacing any earlier one.
func (c *SeriesCache) Put(id dictionary.EntryID, ts ir.TimeSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series[id] = ts.Clone()
}

// Len returns the number of cached series.
func (c *SeriesCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.series)
}

// Stats returns the hit and miss counts since the last Reset.
func (c *SeriesCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Reset drops every cached series. Entry IDs are only meaningful for one
// Dictionary, so the cache must be reset whenever the dictionary is rebuilt.
func (c *SeriesCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series = make(map[dictionary.EntryID]ir.TimeSeries)
	c.hits, c.misses = 0, 0
}
