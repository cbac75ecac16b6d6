// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	backendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connect_backend_requests_total",
			Help: "Backend API calls by method, route and outcome.",
		},
		[]string{"method", "route", "outcome"},
	)

	backendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connect_backend_request_duration_seconds",
			Help:    "Backend API call latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RegisterMetrics registers the client collectors once with reg.
func RegisterMetrics(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(backendRequestsTotal, backendRequestDuration)
	})
}

func observe(method, route string, err error, d time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		var apiErr *Error
		if errors.As(err, &apiErr) {
			outcome = apiErr.Kind.String()
		}
	}
	backendRequestsTotal.WithLabelValues(method, route, outcome).Inc()
	backendRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// canonicalPath replaces numeric path segments with ":id" so that metric
// labels stay bounded.
func canonicalPath(path string) string {
	if path == "" {
		return "/"
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if s != "" && isDigits(s) {
			segs[i] = ":id"
		}
	}
	return strings.Join(segs, "/")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
