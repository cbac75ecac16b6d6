// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/olegiv/connect-web/internal/apiclient"
	"github.com/olegiv/connect-web/internal/auth"
	"github.com/olegiv/connect-web/internal/content"
	"github.com/olegiv/connect-web/internal/middleware"
	"github.com/olegiv/connect-web/internal/model"
	"github.com/olegiv/connect-web/internal/syncbus"
)

// DefaultHeartbeat is the interval of keep-alive comments on live streams.
const DefaultHeartbeat = 25 * time.Second

// Live stream event names understood by live.js.
const (
	eventRefresh = "refresh"
	eventGate    = "gate"
)

// LiveHandler streams re-rendered regions to open pages over server-sent
// events. A stream refetches when the sync bus reports a relevant change
// and ends with a gate event when the session ends.
type LiveHandler struct {
	base
	bus       *syncbus.Bus
	metrics   *middleware.Metrics
	heartbeat time.Duration
}

// NewLiveHandler creates a new LiveHandler.
func NewLiveHandler(d Deps) *LiveHandler {
	hb := d.Heartbeat
	if hb <= 0 {
		hb = DefaultHeartbeat
	}
	return &LiveHandler{base: d.base(), bus: d.Bus, metrics: d.Metrics, heartbeat: hb}
}

// region loads the data of a live region and names its partial.
type region func(ctx context.Context) (name string, data any, err error)

// Feed streams the home feed region. Every change refreshes it.
func (h *LiveHandler) Feed(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, func(syncbus.ContentChanged) bool { return true }, func(ctx context.Context) (string, any, error) {
		feed, err := h.content.FetchFeed(ctx)
		if err != nil {
			return "", nil, err
		}
		return "feed_region", h.feedView(ctx, feed), nil
	})
}

// News streams the region of one article.
func (h *LiveHandler) News(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, model.KindNews)
}

// Event streams the region of one event.
func (h *LiveHandler) Event(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, model.KindEvent)
}

func (h *LiveHandler) detail(w http.ResponseWriter, r *http.Request, kind model.Kind) {
	id, ok := idParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	caps := auth.FromContext(r.Context())
	relevant := func(evt syncbus.ContentChanged) bool { return evt.Kind == kind && evt.ID == id }
	h.stream(w, r, relevant, func(ctx context.Context) (string, any, error) {
		d, err := h.content.FetchOne(ctx, kind, id)
		if err != nil {
			return "", nil, err
		}
		data, name := h.detailView(ctx, d, caps)
		return name, data, nil
	})
}

func (h *LiveHandler) stream(w http.ResponseWriter, r *http.Request, relevant func(syncbus.ContentChanged) bool, load region) {
	ctx := r.Context()
	rc := http.NewResponseController(w)

	ended, stopWatch := h.store.Watch(h.store.Token(ctx))
	defer stopWatch()
	sub := h.bus.Subscribe()
	defer sub.Unsubscribe()

	_ = rc.SetWriteDeadline(time.Time{})
	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger.ErrorContext(ctx, "streaming unsupported", "error", err)
		return
	}

	if h.metrics != nil {
		h.metrics.StreamOpened()
		defer h.metrics.StreamClosed()
	}
	h.logger.DebugContext(ctx, "live stream opened")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ended:
			h.send(w, rc, eventGate, []byte(RouteLogin))
			return

		case evt, ok := <-sub.C:
			if !ok {
				return
			}
			if !relevant(evt) {
				continue
			}
			name, data, err := load(ctx)
			// The view may have closed or the session ended while fetching;
			// a stale result is never pushed.
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ended:
				h.send(w, rc, eventGate, []byte(RouteLogin))
				return
			default:
			}

			if err != nil {
				switch {
				case apiclient.IsUnauthorized(err):
					h.store.Expire(ctx)
					h.send(w, rc, eventGate, []byte(RouteLogin))
					return
				case errors.Is(err, content.ErrNotFound):
					h.send(w, rc, eventGate, []byte(RouteHome))
					return
				}
				h.logger.WarnContext(ctx, "live refresh failed", "kind", evt.Kind, "id", evt.ID, "error", err)
				continue
			}

			var buf bytes.Buffer
			if err := h.renderer.Partial(&buf, name, data); err != nil {
				h.logger.ErrorContext(ctx, "live render failed", "partial", name, "error", err)
				continue
			}
			if err := h.send(w, rc, eventRefresh, buf.Bytes()); err != nil {
				return
			}

		case <-ticker.C:
			if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func (h *LiveHandler) send(w io.Writer, rc *http.ResponseController, event string, data []byte) error {
	if err := writeEvent(w, event, data); err != nil {
		return err
	}
	return rc.Flush()
}

// writeEvent writes one server-sent event. Every line of data becomes a
// data field.
func writeEvent(w io.Writer, event string, data []byte) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "event: %s\n", event)
	for _, line := range bytes.Split(data, []byte("\n")) {
		buf.WriteString("data: ")
		buf.Write(bytes.TrimSuffix(line, []byte("\r")))
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
