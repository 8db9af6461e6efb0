// Package cache provides a Redis-backed availability result cache for
// deployments where multiple hosts share verdicts.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/curbspot/curbspot/internal/availability/domain"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces availability entries in a shared Redis.
const keyPrefix = "curbspot:"

// RedisResultCache implements application.ResultCache on Redis with
// server-side TTL expiry. Cache operations are best effort: a Redis
// failure degrades to a miss, never to a failed check.
type RedisResultCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisResultCache creates a Redis-backed result cache.
func NewRedisResultCache(client *redis.Client, logger *slog.Logger) *RedisResultCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisResultCache{client: client, logger: logger}
}

// Get retrieves a cached result. Missing, expired, or undecodable entries
// are misses.
func (c *RedisResultCache) Get(ctx context.Context, key string) (domain.AvailabilityResult, bool) {
	payload, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return domain.AvailabilityResult{}, false
	}
	if err != nil {
		c.logger.Warn("redis cache read failed", "key", key, "error", err)
		return domain.AvailabilityResult{}, false
	}

	var result domain.AvailabilityResult
	if err := json.Unmarshal(payload, &result); err != nil {
		c.logger.Warn("redis cache entry undecodable", "key", key, "error", err)
		return domain.AvailabilityResult{}, false
	}
	return result, true
}

// Set stores a result with the given TTL. Entries are written wholesale;
// Redis replaces atomically, so readers never see a partial result.
func (c *RedisResultCache) Set(ctx context.Context, key string, result domain.AvailabilityResult, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("redis cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, keyPrefix+key, payload, ttl).Err(); err != nil {
		c.logger.Warn("redis cache write failed", "key", key, "error", err)
	}
}

// Delete removes an entry.
func (c *RedisResultCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		c.logger.Warn("redis cache delete failed", "key", key, "error", err)
	}
}
