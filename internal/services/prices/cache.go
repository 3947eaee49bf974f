package prices

import (
	"fmt"
	"sync"

	"github.com/bobmcallan/dcacalc/internal/models"
)

// RangeCache memoizes acquired histories per (start, end) range for the
// lifetime of the process. Entries are never replaced or expired.
type RangeCache struct {
	mu      sync.RWMutex
	entries map[string]*models.PriceHistory
}

// NewRangeCache returns an empty cache.
func NewRangeCache() *RangeCache {
	return &RangeCache{entries: make(map[string]*models.PriceHistory)}
}

// rangeKey formats the cache key for a range, e.g. prices-2024-01-01-2024-10-11.
func rangeKey(start, end models.Date) string {
	return fmt.Sprintf("prices-%s-%s", start, end)
}

// Get returns the cached history for the range.
func (c *RangeCache) Get(start, end models.Date) (*models.PriceHistory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.entries[rangeKey(start, end)]
	return h, ok
}

// PutIfAbsent stores history under the range unless an entry already exists,
// and returns the entry that is cached after the call.
func (c *RangeCache) PutIfAbsent(start, end models.Date, history *models.PriceHistory) *models.PriceHistory {
	key := rangeKey(start, end)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		return existing
	}
	c.entries[key] = history
	return history
}

// Len returns the number of cached ranges.
func (c *RangeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
