// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// unlinkBatch is how many keys one UNLINK removes during a prefix sweep.
const unlinkBatch = 200

// RedisCache stores entries in Redis so that every front-end instance
// shares feed lists and avatar thumbnails. Keys are namespaced by prefix.
type RedisCache struct {
	rdb        redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
	closed     atomic.Bool

	hits, misses, sets atomic.Int64
}

// RedisCacheOptions configures the Redis cache.
type RedisCacheOptions struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string
	// Prefix is prepended to all keys (e.g., "connect:")
	Prefix     string
	DefaultTTL time.Duration
	// Timeout bounds dialing, each command and the startup PING.
	Timeout  time.Duration
	PoolSize int // 0 = driver default
}

// DefaultRedisCacheOptions returns sensible defaults.
func DefaultRedisCacheOptions() RedisCacheOptions {
	return RedisCacheOptions{
		Prefix:     "connect:",
		DefaultTTL: time.Minute,
		Timeout:    3 * time.Second,
		PoolSize:   10,
	}
}

// NewRedisCache connects to Redis and verifies the connection with a PING.
func NewRedisCache(opts RedisCacheOptions) (*RedisCache, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}
	ro, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	if opts.Timeout > 0 {
		ro.DialTimeout, ro.ReadTimeout, ro.WriteTimeout = opts.Timeout, opts.Timeout, opts.Timeout
	}
	if opts.PoolSize > 0 {
		ro.PoolSize = opts.PoolSize
	}

	c := newRedisCache(redis.NewClient(ro), opts.Prefix, opts.DefaultTTL)
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return c, nil
}

// NewRedisCacheFromURL creates a Redis cache from just a URL with default options.
func NewRedisCacheFromURL(url string, prefix string, defaultTTL time.Duration) (*RedisCache, error) {
	opts := DefaultRedisCacheOptions()
	opts.URL = url
	if prefix != "" {
		opts.Prefix = prefix
	}
	if defaultTTL > 0 {
		opts.DefaultTTL = defaultTTL
	}
	return NewRedisCache(opts)
}

func newRedisCache(rdb redis.UniversalClient, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: prefix, defaultTTL: ttl}
}

func (c *RedisCache) key(k string) string { return c.prefix + k }

func (c *RedisCache) usable() error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return nil
}

// Get returns the value, or ErrCacheMiss when Redis has no such key.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := c.usable(); err != nil {
		return nil, err
	}
	val, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.misses.Add(1)
		return nil, ErrCacheMiss
	case err != nil:
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	c.hits.Add(1)
	return val, nil
}

// Set stores value. A zero ttl uses the default; Redis expires the key.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.usable(); err != nil {
		return err
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	if err := c.rdb.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	c.sets.Add(1)
	return nil
}

// Delete removes a key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.usable(); err != nil {
		return err
	}
	return c.rdb.Unlink(ctx, c.key(key)).Err()
}

// DeleteByPrefix removes every key under prefix, relative to the cache's
// own prefix. Keys are found with SCAN and removed in UNLINK batches.
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	if err := c.usable(); err != nil {
		return err
	}
	return c.sweep(ctx, c.key(prefix)+"*")
}

// Clear removes every key of this cache.
func (c *RedisCache) Clear(ctx context.Context) error {
	return c.DeleteByPrefix(ctx, "")
}

func (c *RedisCache) sweep(ctx context.Context, match string) error {
	iter := c.rdb.Scan(ctx, 0, match, unlinkBatch).Iterator()
	batch := make([]string, 0, unlinkBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := c.rdb.Unlink(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == unlinkBatch {
			if err := flush(); err != nil {
				return fmt.Errorf("redis unlink: %w", err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan %s: %w", match, err)
	}
	if err := flush(); err != nil {
		return fmt.Errorf("redis unlink: %w", err)
	}
	return nil
}

// Has reports whether key exists.
func (c *RedisCache) Has(ctx context.Context, key string) (bool, error) {
	if err := c.usable(); err != nil {
		return false, err
	}
	n, err := c.rdb.Exists(ctx, c.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %s: %w", key, err)
	}
	return n > 0, nil
}

// Ping checks the connection. The health endpoint reports its result.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.usable(); err != nil {
		return err
	}
	return c.rdb.Ping(ctx).Err()
}

// Close closes the client. Later calls return ErrCacheClosed.
func (c *RedisCache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.rdb.Close()
}

// Stats returns the local hit, miss and set counters of this process.
// Items is not tracked for Redis.
func (c *RedisCache) Stats() Stats {
	h, m := c.hits.Load(), c.misses.Load()
	return Stats{Hits: h, Misses: m, Sets: c.sets.Load(), HitRate: hitRate(h, m)}
}

// ResetStats zeroes the counters.
func (c *RedisCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
}

var (
	_ Cacher        = (*RedisCache)(nil)
	_ StatsProvider = (*RedisCache)(nil)
	_ Pinger        = (*RedisCache)(nil)
)
