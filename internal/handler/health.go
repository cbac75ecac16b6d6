// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/olegiv/connect-web/internal/cache"
	"github.com/olegiv/connect-web/internal/geoip"
	"github.com/olegiv/connect-web/internal/scheduler"
	"github.com/olegiv/connect-web/internal/store"
	"github.com/olegiv/connect-web/internal/syncbus"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	bus       *syncbus.Bus
	cacheType string
	cache     cache.Cacher
	geo       *geoip.Locator
	sched     *scheduler.Scheduler
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(d Deps) *HealthHandler {
	return &HealthHandler{
		db:        d.DB,
		bus:       d.Bus,
		cacheType: d.CacheType,
		cache:     d.Cache,
		geo:       d.GeoIP,
		sched:     d.Scheduler,
		version:   d.Version,
		startTime: time.Now(),
	}
}

// HealthStatus is the health response.
type HealthStatus struct {
	Status       string      `json:"status"`
	Version      string      `json:"version"`
	Uptime       string      `json:"uptime"`
	Database     string      `json:"database"`
	Cache        string      `json:"cache,omitempty"`
	CacheStatus  string      `json:"cache_status,omitempty"`
	CacheHitRate float64     `json:"cache_hit_rate,omitempty"`
	Sessions     int         `json:"sessions,omitempty"`
	LiveStreams  int         `json:"live_streams"`
	GeoIP        string      `json:"geoip"`
	Jobs         []JobStatus `json:"jobs,omitempty"`
}

// JobStatus is one maintenance job in the health response.
type JobStatus struct {
	Name    string    `json:"name"`
	Runs    int       `json:"runs"`
	LastRun time.Time `json:"last_run,omitzero"`
	NextRun time.Time `json:"next_run,omitzero"`
	Error   string    `json:"last_error,omitempty"`
}

// ServeHTTP reports process health. The session database is the only local
// dependency; backend outages are absorbed by the content layer and do not
// make the front end unhealthy.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:   "ok",
		Version:  h.version,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
		Database: "ok",
		Cache:    h.cacheType,
	}
	if h.bus != nil {
		status.LiveStreams = h.bus.Subscribers()
	}
	status.GeoIP = "disabled"
	if h.geo != nil && h.geo.Enabled() {
		status.GeoIP = "enabled"
	}
	if h.sched != nil {
		for _, j := range h.sched.Jobs() {
			status.Jobs = append(status.Jobs, JobStatus{
				Name: j.Name, Runs: j.Runs, LastRun: j.LastRun, NextRun: j.NextRun, Error: j.LastErr,
			})
		}
	}

	code := http.StatusOK
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			status.Status = "degraded"
			status.Database = "unavailable"
			code = http.StatusServiceUnavailable
		} else if n, err := store.CountSessions(r.Context(), h.db); err == nil {
			status.Sessions = n
		}
	}

	if h.cache != nil {
		status.CacheStatus = "ok"
		if p, ok := h.cache.(cache.Pinger); ok {
			if err := p.Ping(r.Context()); err != nil {
				status.Status = "degraded"
				status.CacheStatus = "unavailable"
			}
		}
		if sp, ok := h.cache.(cache.StatsProvider); ok {
			status.CacheHitRate = sp.Stats().HitRate
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}
