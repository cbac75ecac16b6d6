// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterCache keeps one token bucket per key.
type limiterCache[K comparable] struct {
	mu       sync.Mutex
	limiters map[K]*limiterEntry
	rate     rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*limiterEntry),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (lc *limiterCache[K]) allow(key K, now time.Time) bool {
	lc.mu.Lock()
	e, ok := lc.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(lc.rate, lc.burst)}
		lc.limiters[key] = e
	}
	e.lastSeen = now
	lc.mu.Unlock()
	return e.limiter.AllowN(now, 1)
}

// prune drops buckets idle for longer than idle.
func (lc *limiterCache[K]) prune(now time.Time, idle time.Duration) int {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	removed := 0
	for k, e := range lc.limiters {
		if now.Sub(e.lastSeen) > idle {
			delete(lc.limiters, k)
			removed++
		}
	}
	return removed
}

func (lc *limiterCache[K]) size() int {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return len(lc.limiters)
}

// LoginThrottle limits login and registration attempts per client IP.
type LoginThrottle struct {
	ips *limiterCache[string]
	now func() time.Time
}

// NewLoginThrottle creates a throttle allowing rps attempts per second with
// the given burst. Non-positive values fall back to 0.5 and 5.
func NewLoginThrottle(rps float64, burst int) *LoginThrottle {
	if rps <= 0 {
		rps = 0.5
	}
	if burst <= 0 {
		burst = 5
	}
	return &LoginThrottle{ips: newLimiterCache[string](rps, burst), now: time.Now}
}

// Middleware throttles POST requests. GET requests render the form freely.
func (lt *LoginThrottle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		ip := clientIP(r)
		if !lt.ips.allow(ip, lt.now()) {
			slog.WarnContext(r.Context(), "login attempts throttled", "ip", ip)
			w.Header().Set("Retry-After", "2")
			http.Error(w, "Too many attempts. Please wait a moment and try again.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Prune drops idle client buckets. The server calls it periodically.
func (lt *LoginThrottle) Prune(idle time.Duration) int {
	return lt.ips.prune(lt.now(), idle)
}

// clientIP returns the host part of RemoteAddr, which chi's RealIP
// middleware has already rewritten when running behind a proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
