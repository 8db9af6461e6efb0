// Package application composes the pure availability core with the
// external provider boundary: per-resource checks, result caching, and
// batched fan-out.
package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/curbspot/curbspot/internal/availability/domain"
	"github.com/google/uuid"
)

// CacheKey builds the cache key for one resource and one requested
// interval. Different windows have different verdicts, so the interval is
// part of the key.
func CacheKey(resourceID uuid.UUID, interval domain.Interval) string {
	return fmt.Sprintf("avail:%s:%d:%d", resourceID, interval.Start.Unix(), interval.End.Unix())
}

// ResultCache stores availability results for a bounded TTL. Entries are
// replaced wholesale, never mutated, so readers never observe a
// half-written result. Implementations must be safe for concurrent use.
type ResultCache interface {
	Get(ctx context.Context, key string) (domain.AvailabilityResult, bool)
	Set(ctx context.Context, key string, result domain.AvailabilityResult, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

type memoryEntry struct {
	result    domain.AvailabilityResult
	expiresAt time.Time
}

// InMemoryResultCache is a mutex-guarded TTL map. Expiry is evaluated at
// read time against the stored deadline; there is no background eviction
// timer. Inject a fresh instance per test case rather than sharing one.
type InMemoryResultCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	nowFn   func() time.Time
}

// NewInMemoryResultCache creates an empty cache.
func NewInMemoryResultCache() *InMemoryResultCache {
	return &InMemoryResultCache{
		entries: make(map[string]memoryEntry),
		nowFn:   time.Now,
	}
}

// WithClock overrides the cache's clock for tests.
func (c *InMemoryResultCache) WithClock(nowFn func() time.Time) *InMemoryResultCache {
	c.nowFn = nowFn
	return c
}

// Get returns a non-expired entry. Expired entries are dropped lazily.
func (c *InMemoryResultCache) Get(_ context.Context, key string) (domain.AvailabilityResult, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return domain.AvailabilityResult{}, false
	}
	if !c.nowFn().Before(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have
		// refreshed the entry since the read above.
		if cur, ok := c.entries[key]; ok && !c.nowFn().Before(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return domain.AvailabilityResult{}, false
	}
	return entry.result, true
}

// Set stores a result until now+ttl.
func (c *InMemoryResultCache) Set(_ context.Context, key string, result domain.AvailabilityResult, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{result: result, expiresAt: c.nowFn().Add(ttl)}
	c.mu.Unlock()
}

// Delete removes an entry, forcing the next check to re-execute.
func (c *InMemoryResultCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired or not.
func (c *InMemoryResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
