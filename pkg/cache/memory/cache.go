// Package memory implements the in-process analysis cache.
//
// Entries are keyed by a fingerprint of the interaction mode, the request
// text, and the two most recent conversation turns, so semantically
// identical requests that differ only in older history share one entry.
package memory

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/speakup-ai/speakup/pkg/models"
)

// Cache is a concurrent-safe analysis cache with lazy TTL eviction.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
	hits    atomic.Int64
	misses  atomic.Int64
}

type entry struct {
	result   models.Analysis
	storedAt time.Time
}

// New creates a Cache with the given entry time-to-live.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Key derives the cache fingerprint from the mode, the raw text, and the
// last two turns of conversation history. Only turn contents participate,
// matching the lookup contract: older history never splits entries.
func Key(mode, text string, history []models.Turn) string {
	recent := history
	if len(recent) > 2 {
		recent = recent[len(recent)-2:]
	}
	contents := make([]string, 0, len(recent))
	for _, turn := range recent {
		contents = append(contents, turn.Content)
	}
	historyJSON, _ := json.Marshal(contents)

	textSum := sha256.Sum256([]byte(text))
	historySum := sha256.Sum256(historyJSON)
	return fmt.Sprintf("%s_%x_%x", mode, textSum, historySum)
}

// Lookup returns the cached result for key, if present and unexpired.
// Expired entries are purged at this point; there is no background sweep.
func (c *Cache) Lookup(key string) (models.Analysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return models.Analysis{}, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		c.misses.Add(1)
		return models.Analysis{}, false
	}
	c.hits.Add(1)
	return e.result, true
}

// Store records a result under key, overwriting any previous entry.
func (c *Cache) Store(key string, result models.Analysis) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{result: result, storedAt: c.now()}
}

// Stats returns cache performance metrics.
func (c *Cache) Stats() models.CacheStats {
	c.mu.Lock()
	entries := int64(len(c.entries))
	c.mu.Unlock()
	return models.CacheStats{
		Entries: entries,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}
