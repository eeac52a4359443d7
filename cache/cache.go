// Package cache memoizes expensive lookups in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"intrinsicpe/metrics"
)

// Cache wraps a Redis client. A nil *Cache is valid and caches nothing.
type Cache struct {
	client *redis.Client
	log    *zap.Logger
}

// New creates a cache on top of client
func New(client *redis.Client, log *zap.Logger) *Cache {
	return &Cache{client: client, log: log}
}

// Ping checks that Redis is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Memoize returns the cached value for key, or calls fn and stores its result
// for ttl. Redis failures are logged and fall through to fn; errors from fn
// are returned and nothing is stored.
func Memoize[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	if c == nil {
		return fn()
	}

	var result T

	// Try fetching from cache
	cachedData, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(cachedData, &result); jsonErr == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return result, nil
		}
		c.log.Warn("discarding undecodable cache entry", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	// Call the actual function
	result, err = fn()
	if err != nil {
		return result, err
	}

	// Store result in cache
	cacheData, err := json.Marshal(result)
	if err != nil {
		c.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return result, nil
	}
	if err := c.client.Set(ctx, key, cacheData, ttl).Err(); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}

	return result, nil
}
