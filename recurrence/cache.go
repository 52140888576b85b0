package recurrence

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Cache memoizes occurrence expansions. The preview endpoint recomputes the
// same handful of dates on every keystroke of the edit form, so results are
// kept for a short TTL keyed by the rule, the anchor and the window.
type Cache struct {
	mu          sync.RWMutex
	entries     map[string]*cacheEntry
	ttl         time.Duration
	maxEntries  int
	stopCleanup chan struct{}
}

type cacheEntry struct {
	occurrences []time.Time
	expiresAt   time.Time
	accessedAt  time.Time
}

// CacheConfig holds tuning knobs for the occurrence cache.
type CacheConfig struct {
	TTL             time.Duration
	MaxEntries      int
	CleanupInterval time.Duration
}

// DefaultCacheConfig suits the edit-form preview workload: entries go stale
// quickly and the working set is small.
var DefaultCacheConfig = CacheConfig{
	TTL:             5 * time.Minute,
	MaxEntries:      500,
	CleanupInterval: time.Minute,
}

// NewCache creates an occurrence cache and starts its cleanup goroutine.
// Call Close when done.
func NewCache(config CacheConfig) *Cache {
	c := &Cache{
		entries:     make(map[string]*cacheEntry),
		ttl:         config.TTL,
		maxEntries:  config.MaxEntries,
		stopCleanup: make(chan struct{}),
	}
	go c.cleanupLoop(config.CleanupInterval)
	return c
}

func cacheKey(r Rule, anchor, from, to time.Time, limit int) string {
	h := sha256.New()

	p := EncodePayload(r)
	fmt.Fprintf(h, "%s|%d|%d|", p.Type, p.Interval, p.LeadTimeDays)
	if p.DaysOfWeek != nil {
		h.Write([]byte(*p.DaysOfWeek))
	}
	h.Write([]byte{'|'})
	if p.DayOfMonth != nil {
		h.Write([]byte(strconv.Itoa(*p.DayOfMonth)))
	}
	fmt.Fprintf(h, "|%s|", p.EndDate)
	if p.MaxOccurrences != nil {
		h.Write([]byte(strconv.Itoa(*p.MaxOccurrences)))
	}

	fmt.Fprintf(h, "|%s|%s|%s|%d",
		anchor.Format(time.RFC3339Nano),
		from.Format(time.RFC3339Nano),
		to.Format(time.RFC3339Nano),
		limit)

	return fmt.Sprintf("%x", h.Sum(nil))
}

// Get returns a cached expansion if present and not expired.
func (c *Cache) Get(r Rule, anchor, from, to time.Time, limit int) ([]time.Time, bool) {
	key := cacheKey(r, anchor, from, to, limit)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := time.Now()
	if now.After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	entry.accessedAt = now
	c.mu.Unlock()
	return entry.occurrences, true
}

// Set stores an expansion result.
func (c *Cache) Set(r Rule, anchor, from, to time.Time, limit int, occurrences []time.Time) {
	key := cacheKey(r, anchor, from, to, limit)
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cacheEntry{
		occurrences: occurrences,
		expiresAt:   now.Add(c.ttl),
		accessedAt:  now,
	}
	if len(c.entries) > c.maxEntries {
		c.evict()
	}
}

// Len reports the number of live entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evict drops expired entries, then the least recently accessed entries
// until the cache is back under its limit. Callers must hold the write lock.
func (c *Cache) evict() {
	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}

	for len(c.entries) > c.maxEntries {
		var oldestKey string
		var oldest time.Time
		for key, entry := range c.entries {
			if oldestKey == "" || entry.accessedAt.Before(oldest) {
				oldestKey = key
				oldest = entry.accessedAt
			}
		}
		delete(c.entries, oldestKey)
	}
}

func (c *Cache) cleanupLoop(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCacheConfig.CleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.evict()
			c.mu.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the cleanup goroutine and clears the cache.
func (c *Cache) Close() {
	close(c.stopCleanup)
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}
