// Package cache holds short-lived memos of completed estimation results.
package cache

import (
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"propinsight/internal/dedup"
)

const (
	// DefaultTTL tolerates market-estimate drift without unbounded staleness
	DefaultTTL = 60 * time.Second
	// DefaultSize bounds the number of memoized results
	DefaultSize = 1024
)

// Stats is a snapshot of cache counters
type Stats struct {
	HitRate float64 `json:"hit_rate"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Entries int     `json:"entries"`
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// ResultCache memoizes successful results by fingerprint. Entries are never
// mutated in place: Put replaces, Get treats anything past its TTL as absent.
// The LRU bound only evicts early under memory pressure.
type ResultCache[V any] struct {
	entries *lru.Cache[dedup.Fingerprint, entry[V]]
	ttl     time.Duration
	now     func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache holding at most size entries with the given default TTL
func New[V any](size int, ttl time.Duration) (*ResultCache[V], error) {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	entries, err := lru.New[dedup.Fingerprint, entry[V]](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}

	return &ResultCache[V]{
		entries: entries,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

// Get returns the cached result for key if it has not expired
func (c *ResultCache[V]) Get(key dedup.Fingerprint) (V, bool) {
	e, ok := c.entries.Get(key)
	if ok && c.now().Before(e.expiresAt) {
		c.hits.Add(1)
		return e.value, true
	}
	if ok {
		c.entries.Remove(key)
	}
	c.misses.Add(1)

	var zero V
	return zero, false
}

// Put stores a result for ttl; a non-positive ttl uses the cache default
func (c *ResultCache[V]) Put(key dedup.Fingerprint, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	c.entries.Add(key, entry[V]{value: value, expiresAt: c.now().Add(ttl)})
}

// Invalidate drops key. Missing keys are ignored.
func (c *ResultCache[V]) Invalidate(key dedup.Fingerprint) {
	c.entries.Remove(key)
}

// Purge drops every entry
func (c *ResultCache[V]) Purge() {
	c.entries.Purge()
}

// TTL returns the default entry lifetime
func (c *ResultCache[V]) TTL() time.Duration { return c.ttl }

// Stats returns hit/miss counters. Entries may include expired items not yet
// observed by Get.
func (c *ResultCache[V]) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	stats := Stats{
		Hits:    hits,
		Misses:  misses,
		Entries: c.entries.Len(),
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats
}
