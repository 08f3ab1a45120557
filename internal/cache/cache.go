// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/rinkside/internal/metrics"
)

// DefaultTTL is used when New is given a non-positive TTL.
const DefaultTTL = 5 * time.Minute

// cleanupInterval is how often expired entries are swept.
const cleanupInterval = time.Minute

// Entry represents a cached item with expiration
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Cache provides a thread-safe in-memory cache with TTL support
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	now     func() time.Time

	statsMu sync.Mutex
	stats   Stats

	stopOnce sync.Once
	stop     chan struct{}
}

// Stats is a snapshot of cache performance counters.
type Stats struct {
	Hits          int64     `json:"hits"`
	Misses        int64     `json:"misses"`
	Evictions     int64     `json:"evictions"`
	Invalidations int64     `json:"invalidations"`
	TotalKeys     int64     `json:"total_keys"`
	LastCleanup   time.Time `json:"last_cleanup"`
}

// New creates a cache whose entries live for ttl and starts the background
// sweep of expired entries. Call Stop to end the sweep.
//
// Example:
//
//	c := cache.New(5 * time.Minute)
//	defer c.Stop()
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	c.stats.LastCleanup = c.now()

	go c.cleanupLoop()

	return c
}

// TTL returns the default lifetime of an entry.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get retrieves a value from the cache by key with automatic expiration checking.
//
// Behavior:
//   - Returns (nil, false) if key doesn't exist
//   - Returns (nil, false) if entry has expired (entry is deleted)
//   - Returns (data, true) if entry is valid
//
// Hits and misses are also exported to prometheus by view type.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss(key)
		return nil, false
	}

	if c.now().After(entry.ExpiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, ok := c.entries[key]; ok && c.now().After(cur.ExpiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		c.recordMiss(key)
		c.recordEviction(1)
		return nil, false
	}

	c.recordHit(key)
	return entry.Data, true
}

// Set stores a value in the cache with the default TTL configured at cache creation.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value in the cache with a custom TTL
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = Entry{
		Data:      value,
		ExpiresAt: c.now().Add(ttl),
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.setSize(size)
}

// Delete removes a specific cache entry by key. Missing keys are a no-op.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	_, existed := c.entries[key]
	delete(c.entries, key)
	size := len(c.entries)
	c.mu.Unlock()

	if existed {
		c.recordInvalidations(1)
	}
	c.setSize(size)
}

// DeletePrefix removes every entry whose key starts with prefix and returns
// the number removed. An empty prefix removes nothing; use Clear for that.
//
// Example:
//
//	// A game in season s1 changed
//	c.DeletePrefix(league.SeasonCacheKey("s1"))
func (c *Cache) DeletePrefix(prefix string) int {
	if prefix == "" {
		return 0
	}

	c.mu.Lock()
	removed := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			removed++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.recordInvalidations(removed)
	c.setSize(size)
	return removed
}

// Clear removes all entries from the cache in a single atomic operation.
func (c *Cache) Clear() {
	c.mu.Lock()
	removed := len(c.entries)
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.recordInvalidations(removed)
	c.setSize(0)
}

// Keys returns the live keys in sorted order.
func (c *Cache) Keys() []string {
	now := c.now()
	c.mu.RLock()
	keys := make([]string, 0, len(c.entries))
	for key, entry := range c.entries {
		if !now.After(entry.ExpiresAt) {
			keys = append(keys, key)
		}
	}
	c.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// GetStats returns a snapshot of current cache performance statistics.
// Derived hit rate is available from HitRate.
func (c *Cache) GetStats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

// HitRate returns the cache hit rate as a percentage
func (c *Cache) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// Stop ends the background sweep. It is safe to call more than once.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// cleanupLoop periodically removes expired entries
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes all expired entries
func (c *Cache) cleanup() {
	now := c.now()
	c.mu.Lock()
	evictions := 0
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			evictions++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.recordEviction(evictions)
	c.setSize(size)

	c.statsMu.Lock()
	c.stats.LastCleanup = now
	c.statsMu.Unlock()
}

func (c *Cache) recordHit(key string) {
	c.statsMu.Lock()
	c.stats.Hits++
	c.statsMu.Unlock()
	metrics.RecordCacheLookup(ViewType(key), true)
}

func (c *Cache) recordMiss(key string) {
	c.statsMu.Lock()
	c.stats.Misses++
	c.statsMu.Unlock()
	metrics.RecordCacheLookup(ViewType(key), false)
}

func (c *Cache) recordEviction(n int) {
	if n == 0 {
		return
	}
	c.statsMu.Lock()
	c.stats.Evictions += int64(n)
	c.statsMu.Unlock()
}

func (c *Cache) recordInvalidations(n int) {
	if n == 0 {
		return
	}
	c.statsMu.Lock()
	c.stats.Invalidations += int64(n)
	c.statsMu.Unlock()
	metrics.CacheInvalidations.WithLabelValues("views").Add(float64(n))
}

func (c *Cache) setSize(n int) {
	c.statsMu.Lock()
	c.stats.TotalKeys = int64(n)
	c.statsMu.Unlock()
	metrics.CacheSize.WithLabelValues("views").Set(float64(n))
}

// ViewType returns the view segment of a season key ("standings" for
// "season:s1:standings"), or "other" for keys outside that scheme.
func ViewType(key string) string {
	parts := strings.SplitN(key, ":", 4)
	if len(parts) < 3 || parts[0] != "season" || parts[2] == "" {
		return "other"
	}
	return parts[2]
}
