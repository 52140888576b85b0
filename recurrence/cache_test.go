package recurrence

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, config CacheConfig) *Cache {
	t.Helper()
	c := NewCache(config)
	t.Cleanup(c.Close)
	return c
}

func TestCache_HitAndMiss(t *testing.T) {
	c := newTestCache(t, DefaultCacheConfig)

	r := Rule{Freq: Daily, Interval: 1}
	from := testAnchor
	to := testAnchor.AddDate(0, 0, 7)

	_, ok := c.Get(r, testAnchor, from, to, 10)
	assert.False(t, ok, "empty cache should miss")

	want := []time.Time{testAnchor, testAnchor.AddDate(0, 0, 1)}
	c.Set(r, testAnchor, from, to, 10, want)

	got, ok := c.Get(r, testAnchor, from, to, 10)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestCache_KeyCoversRuleFields(t *testing.T) {
	c := newTestCache(t, DefaultCacheConfig)

	r := Rule{Freq: Weekly, Interval: 1, DaysOfWeek: mo.Some([]time.Weekday{time.Monday})}
	from := testAnchor
	to := testAnchor.AddDate(0, 0, 30)
	c.Set(r, testAnchor, from, to, 10, []time.Time{testAnchor})

	changed := r
	changed.DaysOfWeek = mo.Some([]time.Weekday{time.Tuesday})
	_, ok := c.Get(changed, testAnchor, from, to, 10)
	assert.False(t, ok, "a different rule must not share a cache entry")

	_, ok = c.Get(r, testAnchor, from, to, 5)
	assert.False(t, ok, "a different limit must not share a cache entry")
}

func TestCache_Expiry(t *testing.T) {
	c := newTestCache(t, CacheConfig{
		TTL:             10 * time.Millisecond,
		MaxEntries:      10,
		CleanupInterval: time.Hour, // expiry is checked on Get, no sweeper needed
	})

	r := Rule{Freq: Daily, Interval: 1}
	c.Set(r, testAnchor, testAnchor, testAnchor.AddDate(0, 0, 7), 10, []time.Time{testAnchor})

	time.Sleep(20 * time.Millisecond)
	_, ok := c.Get(r, testAnchor, testAnchor, testAnchor.AddDate(0, 0, 7), 10)
	assert.False(t, ok)
}

func TestCache_EvictsOverLimit(t *testing.T) {
	c := newTestCache(t, CacheConfig{
		TTL:             time.Hour,
		MaxEntries:      3,
		CleanupInterval: time.Hour,
	})

	for i := 1; i <= 5; i++ {
		r := Rule{Freq: Daily, Interval: i}
		c.Set(r, testAnchor, testAnchor, testAnchor.AddDate(0, 0, 7), 10, []time.Time{testAnchor})
	}

	assert.LessOrEqual(t, c.Len(), 3)
}
