// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the byte-level cache used for backend reads and
// avatar thumbnails, with in-memory and Redis implementations.
package cache

import (
	"context"
	"time"
)

// Cacher is a byte cache safe for concurrent use. Keys are opaque strings;
// callers namespace them with prefixes such as "feed:" or "avatar:".
type Cacher interface {
	// Get returns ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value for ttl, or for the cache default when ttl is zero.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Has(ctx context.Context, key string) (bool, error)
	Close() error
}

// Stats holds cache counters.
type Stats struct {
	Hits, Misses, Sets int64
	Items              int
	HitRate            float64 // percent
	Size               int64   // payload bytes, memory cache only
}

// StatsProvider is implemented by caches that count hits and misses.
type StatsProvider interface {
	Stats() Stats
	ResetStats()
}

// Pinger is implemented by caches backed by a remote server.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Error is a sentinel cache error.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrCacheMiss   Error = "cache miss"
	ErrCacheClosed Error = "cache closed"
)

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return 100 * float64(hits) / float64(total)
}
