// Package cache is a Redis read-through cache for the data behind listing
// pages. Keys embed a generation number; any write bumps the generation,
// which makes every older entry unreachable until it expires.
package cache

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/fyyur/internal/config"
	"github.com/iliyamo/fyyur/internal/logging"
	"github.com/iliyamo/fyyur/internal/metrics"
)

// Cache stores JSON encoded values. A nil *Cache is valid and caches
// nothing.
type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// New returns a Cache, or nil when caching is disabled or Redis is
// unavailable.
func New(cfg config.CacheConfig, rdb *redis.Client) *Cache {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "cache"
	}
	return &Cache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *Cache) genKey() string { return c.prefix + ":gen" }

func (c *Cache) generation(ctx context.Context) (int64, error) {
	g, err := c.rdb.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return g, err
}

// key builds a stable key for name under generation gen.
func (c *Cache) key(gen int64, name string) string {
	sum := sha1.Sum([]byte(strings.ToLower(name)))
	return fmt.Sprintf("%s:g%d:%x", c.prefix, gen, sum[:])
}

// Fetch returns the cached value for name, calling load and storing its
// result on a miss. Redis failures fall back to load; they are never
// returned to the caller.
func Fetch[T any](ctx context.Context, c *Cache, name string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}
	gen, err := c.generation(ctx)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("cache generation unavailable")
		return load(ctx)
	}
	key := c.key(gen, name)

	if bs, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var v T
		if err := json.Unmarshal(bs, &v); err == nil {
			metrics.CacheHits.Inc()
			return v, nil
		}
	}
	metrics.CacheMisses.Inc()

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if bs, err := json.Marshal(v); err == nil {
		if err := c.rdb.Set(ctx, key, bs, c.ttl).Err(); err != nil {
			logging.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("cache store failed")
		}
	}
	return v, nil
}

// Invalidate drops every cached entry by moving to a new generation.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Incr(ctx, c.genKey()).Err()
}
