// Package cache provides a Redis read-through cache for the archive's query
// responses. Cache keys are hashed from the query kind and normalized key;
// concurrent misses for the same key are collapsed with singleflight, and a
// circuit breaker keeps a failing Redis from slowing every request.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/rcastillo-dev/paper-archive-platform/internal/archive"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/config"
	pkgredis "github.com/rcastillo-dev/paper-archive-platform/pkg/redis"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/resilience"
)

const keyPrefix = "archive:"

// ResponseCache caches rendered JSON responses keyed by query kind
// ("author", "keyword", "titles", ...) and lookup key.
type ResponseCache struct {
	client  *pkgredis.Client
	cfg     config.RedisConfig
	group   singleflight.Group
	breaker *resilience.CircuitBreaker
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

// New creates a ResponseCache over an established Redis client.
func New(client *pkgredis.Client, cfg config.RedisConfig) *ResponseCache {
	return &ResponseCache{
		client:  client,
		cfg:     cfg,
		breaker: resilience.NewCircuitBreaker("redis-cache", resilience.CircuitBreakerConfig{}),
		logger:  slog.Default().With("component", "response-cache"),
	}
}

// Get returns the cached response for (kind, key), if present.
func (c *ResponseCache) Get(ctx context.Context, kind, key string) ([]byte, bool) {
	cacheKey := c.buildKey(kind, key)

	var data string
	err := c.breaker.Execute(func() error {
		var getErr error
		data, getErr = c.client.Get(ctx, cacheKey)
		if pkgredis.IsNilError(getErr) {
			data = ""
			return nil
		}
		return getErr
	})
	if err != nil {
		c.logger.Debug("cache get degraded", "kind", kind, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	if data == "" {
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return []byte(data), true
}

// Set stores a rendered response under (kind, key) with the configured TTL.
func (c *ResponseCache) Set(ctx context.Context, kind, key string, payload []byte) {
	cacheKey := c.buildKey(kind, key)
	err := c.breaker.Execute(func() error {
		return c.client.Set(ctx, cacheKey, payload, c.cfg.CacheTTL)
	})
	if err != nil {
		c.logger.Debug("cache set degraded", "kind", kind, "error", err)
	}
}

// GetOrCompute returns the cached response for (kind, key), computing and
// storing it on a miss. Concurrent misses for the same key run computeFn
// once. The second return reports whether the response came from cache.
func (c *ResponseCache) GetOrCompute(ctx context.Context, kind, key string, computeFn func() ([]byte, error)) ([]byte, bool, error) {
	if payload, ok := c.Get(ctx, kind, key); ok {
		return payload, true, nil
	}

	cacheKey := c.buildKey(kind, key)
	val, err, _ := c.group.Do(cacheKey, func() (interface{}, error) {
		if payload, ok := c.Get(ctx, kind, key); ok {
			return payload, nil
		}
		payload, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, kind, key, payload)
		return payload, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.([]byte), false, nil
}

// Invalidate drops every cached archive response. Called after any
// successful mutation, since adds change nearly every listing.
func (c *ResponseCache) Invalidate(ctx context.Context) error {
	var deleted int64
	err := c.breaker.Execute(func() error {
		var flushErr error
		deleted, flushErr = c.client.FlushByPattern(ctx, keyPrefix+"*")
		return flushErr
	})
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns hit and miss counters since startup.
func (c *ResponseCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *ResponseCache) buildKey(kind, key string) string {
	raw := fmt.Sprintf("%s:%s", kind, archive.Normalize(key))
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%s:%x", keyPrefix, kind, hash[:16])
}
