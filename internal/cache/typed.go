// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// TypedCache stores JSON-encoded values of one type under a key prefix.
// The content layer keeps one per resource kind (news, events,
// registration snapshots) on top of a shared Cacher.
type TypedCache[T any] struct {
	backing Cacher
	prefix  string
	ttl     time.Duration
}

// NewTypedCache returns a TypedCache whose keys are namespaced by prefix.
// A zero ttl defers to the backing cache's default.
func NewTypedCache[T any](backing Cacher, prefix string, ttl time.Duration) *TypedCache[T] {
	return &TypedCache[T]{backing: backing, prefix: prefix, ttl: ttl}
}

// Get returns the stored value. Misses, backend errors and entries that no
// longer decode into T all report false.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	raw, err := c.backing.Get(ctx, c.prefix+key)
	if err != nil {
		return nil, false
	}
	v := new(T)
	if json.Unmarshal(raw, v) != nil {
		return nil, false
	}
	return v, true
}

// Set stores v with the cache's TTL.
func (c *TypedCache[T]) Set(ctx context.Context, key string, v *T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s%s: %w", c.prefix, key, err)
	}
	return c.backing.Set(ctx, c.prefix+key, raw, c.ttl)
}

// Delete drops one entry.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.backing.Delete(ctx, c.prefix+key)
}

// Clear drops every entry under the prefix, including entries written by
// other TypedCaches that share it.
func (c *TypedCache[T]) Clear(ctx context.Context) error {
	return c.backing.DeleteByPrefix(ctx, c.prefix)
}
