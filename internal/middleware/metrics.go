// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records request counts, latencies and in-flight requests.
type Metrics struct {
	inFlight prometheus.Gauge
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	streams  prometheus.Gauge
	sessions prometheus.Gauge
	rejected prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "connect_http_in_flight_requests",
			Help: "Requests currently being served.",
		}),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "connect_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "connect_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		streams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "connect_live_streams",
			Help: "Open live view streams.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "connect_sessions_stored",
			Help: "Rows in the session table, expired ones included.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "connect_csrf_rejections_total",
			Help: "Cross-origin form posts refused.",
		}),
	}
	reg.MustRegister(m.inFlight, m.total, m.duration, m.streams, m.sessions, m.rejected)
	return m
}

// StreamOpened and StreamClosed track open live views.
func (m *Metrics) StreamOpened() { m.streams.Inc() }

// StreamClosed is the counterpart of StreamOpened.
func (m *Metrics) StreamClosed() { m.streams.Dec() }

// SetStoredSessions records the size of the session table.
func (m *Metrics) SetStoredSessions(n int) { m.sessions.Set(float64(n)) }

// CSRFRejected counts one refused cross-origin request.
func (m *Metrics) CSRFRejected() { m.rejected.Inc() }

// Instrument wraps next with request metrics. Routes are labelled by their
// chi pattern so that ids do not create new series.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		m.total.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach Flush on the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
