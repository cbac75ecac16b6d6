// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache is an in-process cache with per-entry expiry. When MaxSize
// is set it evicts the least recently used entry; Get counts as a use.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]*list.Element
	lru   *list.List // front = most recently used
	bytes int64

	defaultTTL time.Duration
	maxSize    int
	now        func() time.Time

	done   chan struct{}
	closed atomic.Bool

	hits, misses, sets atomic.Int64
}

type memEntry struct {
	key     string
	value   []byte
	expires time.Time
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL time.Duration
	// MaxSize caps the number of entries; 0 means unbounded.
	MaxSize int
	// CleanupInterval sweeps expired entries in the background; 0 disables it.
	CleanupInterval time.Duration
}

// NewMemoryCache returns a memory cache. Close stops its sweeper.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	c := &MemoryCache{
		items:      make(map[string]*list.Element),
		lru:        list.New(),
		defaultTTL: opts.DefaultTTL,
		maxSize:    opts.MaxSize,
		now:        time.Now,
		done:       make(chan struct{}),
	}
	if opts.CleanupInterval > 0 {
		go c.sweepEvery(opts.CleanupInterval)
	}
	return c
}

// NewSimpleMemoryCache returns an unbounded cache swept once a minute.
func NewSimpleMemoryCache(ttl time.Duration) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{DefaultTTL: ttl, CleanupInterval: time.Minute})
}

// lookup returns the live entry for key, dropping it if expired.
// Callers hold mu.
func (c *MemoryCache) lookup(key string) (*list.Element, bool) {
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.now().After(el.Value.(*memEntry).expires) {
		c.remove(el)
		return nil, false
	}
	return el, true
}

func (c *MemoryCache) remove(el *list.Element) {
	e := c.lru.Remove(el).(*memEntry)
	delete(c.items, e.key)
	c.bytes -= int64(len(e.value))
}

// Get returns a copy of the stored value.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}
	c.mu.Lock()
	el, ok := c.lookup(key)
	var out []byte
	if ok {
		c.lru.MoveToFront(el)
		out = append([]byte(nil), el.Value.(*memEntry).value...)
	}
	c.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}
	c.hits.Add(1)
	return out, nil
}

// Set stores a copy of value. A zero ttl uses the default.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	e := &memEntry{key: key, value: append([]byte(nil), value...), expires: c.now().Add(ttl)}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.remove(el)
	}
	for c.maxSize > 0 && c.lru.Len() >= c.maxSize {
		c.remove(c.lru.Back())
	}
	c.items[key] = c.lru.PushFront(e)
	c.bytes += int64(len(e.value))
	c.sets.Add(1)
	return nil
}

// Delete removes key if present.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		c.remove(el)
	}
	c.mu.Unlock()
	return nil
}

// DeleteByPrefix removes every key starting with prefix.
func (c *MemoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, el := range c.items {
		if strings.HasPrefix(key, prefix) {
			c.remove(el)
		}
	}
	return nil
}

// Clear empties the cache.
func (c *MemoryCache) Clear(_ context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.mu.Lock()
	c.items = make(map[string]*list.Element)
	c.lru.Init()
	c.bytes = 0
	c.mu.Unlock()
	return nil
}

// Has reports whether key holds an unexpired value. It does not count as
// a use for eviction.
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}
	c.mu.Lock()
	_, ok := c.lookup(key)
	c.mu.Unlock()
	return ok, nil
}

// Close stops the sweeper. Later calls return ErrCacheClosed.
func (c *MemoryCache) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		close(c.done)
	}
	return nil
}

// Stats returns the counters plus current item count and payload bytes.
func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	items, size := c.lru.Len(), c.bytes
	c.mu.Unlock()

	h, m := c.hits.Load(), c.misses.Load()
	return Stats{Hits: h, Misses: m, Sets: c.sets.Load(), Items: items, HitRate: hitRate(h, m), Size: size}
}

// ResetStats zeroes the counters.
func (c *MemoryCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
}

func (c *MemoryCache) sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now, n := c.now(), 0
	for el := c.lru.Back(); el != nil; {
		prev := el.Prev()
		if now.After(el.Value.(*memEntry).expires) {
			c.remove(el)
			n++
		}
		el = prev
	}
	return n
}

func (c *MemoryCache) sweepEvery(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}

var (
	_ Cacher        = (*MemoryCache)(nil)
	_ StatsProvider = (*MemoryCache)(nil)
)
