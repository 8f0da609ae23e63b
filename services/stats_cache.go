package services

import (
	"context"
	"sync"
	"time"

	"library-api/models"
)

const (
	// AdminStatsCacheKey is the single key the admin statistics are stored under.
	AdminStatsCacheKey = "admin-stats"
	// DefaultStatsCacheTTL is how long a snapshot is served before recomputation.
	DefaultStatsCacheTTL = 300 * time.Second
)

// Clock supplies the current time to StatsCache.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type statsCacheEntry struct {
	snapshot  *models.StatsSnapshot
	expiresAt time.Time
}

// StatsCache keeps snapshots for a fixed time after insertion. Reads do not
// extend the lifetime and nothing invalidates an entry early; a write to the
// catalog is only visible once the entry has expired.
type StatsCache struct {
	mu      sync.RWMutex
	entries map[string]statsCacheEntry
	ttl     time.Duration
	clock   Clock
}

// NewStatsCache creates a cache. A non-positive ttl falls back to
// DefaultStatsCacheTTL and a nil clock to SystemClock.
func NewStatsCache(ttl time.Duration, clock Clock) *StatsCache {
	if ttl <= 0 {
		ttl = DefaultStatsCacheTTL
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &StatsCache{
		entries: make(map[string]statsCacheEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

// TTL returns the lifetime given to every entry.
func (c *StatsCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the snapshot stored under key if it has not expired yet.
func (c *StatsCache) Get(key string) (*models.StatsSnapshot, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !c.clock.Now().Before(entry.expiresAt) {
		c.mu.Lock()
		if current, still := c.entries[key]; still && current.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.snapshot, true
}

// Set stores snapshot under key, replacing any previous entry.
func (c *StatsCache) Set(key string, snapshot *models.StatsSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = statsCacheEntry{
		snapshot:  snapshot,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *StatsCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge drops expired entries and returns how many were removed.
func (c *StatsCache) Purge() int {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// RunJanitor purges expired entries every period until ctx is done.
func (c *StatsCache) RunJanitor(ctx context.Context, period time.Duration) {
	if period <= 0 {
		return
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Purge()
		}
	}
}
