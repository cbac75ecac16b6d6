// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content reads and writes news, events and admin data through the
// backend. Reads fall back to a fixed mock dataset when the backend is
// unreachable; writes never do. Successful writes invalidate the cache and
// notify open live views through the sync bus.
package content

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/connect-web/internal/apiclient"
	"github.com/olegiv/connect-web/internal/cache"
	"github.com/olegiv/connect-web/internal/model"
	"github.com/olegiv/connect-web/internal/syncbus"
)

// Backend is the subset of the API client used by the service.
type Backend interface {
	ListNews(ctx context.Context) ([]model.News, error)
	GetNews(ctx context.Context, id int64) (*model.News, error)
	CreateNews(ctx context.Context, in model.NewsInput) (*model.News, error)
	UpdateNews(ctx context.Context, id int64, in model.NewsInput) (*model.News, error)
	DeleteNews(ctx context.Context, id int64) error

	ListEvents(ctx context.Context) ([]model.Event, error)
	GetEvent(ctx context.Context, id int64) (*model.Event, error)
	CreateEvent(ctx context.Context, in model.EventInput) (*model.Event, error)
	UpdateEvent(ctx context.Context, id int64, in model.EventInput) (*model.Event, error)
	DeleteEvent(ctx context.Context, id int64) error

	EventRegistrations(ctx context.Context, eventID int64) (*model.EventRegistrations, error)
	RemoveRegistration(ctx context.Context, eventID, userID int64) error

	AdminUsers(ctx context.Context) ([]model.AdminUser, error)
	SetCanCreateContent(ctx context.Context, userID int64, allowed bool) error
	AdminEvents(ctx context.Context) ([]model.EventSummary, error)
	UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (string, error)
	DeleteAvatar(ctx context.Context, userID int64) error
}

// Publisher receives content-changed notifications after successful writes.
type Publisher interface {
	Publish(ev syncbus.ContentChanged)
}

// Options configures the service.
type Options struct {
	// MockFallback substitutes the mock dataset when a read fails with a
	// network or server error.
	MockFallback bool
	// DemoMode refuses every write with ErrDemoReadOnly.
	DemoMode bool
	// TTL bounds how long live feed results are reused. Zero disables
	// feed caching.
	TTL time.Duration
}

// Service is the content cache and fallback layer.
type Service struct {
	api    Backend
	bus    Publisher
	opts   Options
	logger *slog.Logger

	news   *cache.TypedCache[[]model.News]
	events *cache.TypedCache[[]model.Event]
	regs   *cache.TypedCache[model.EventRegistrations]

	// regMu serializes read-modify-write cycles on the registration
	// sub-cache.
	regMu sync.Mutex

	// feedMu guards feedGen, which counts committed writes per kind. A list
	// read that started before a write must not refill the cache after the
	// write invalidated it.
	feedMu  sync.Mutex
	feedGen map[model.Kind]uint64
}

// Cache key prefixes.
const (
	prefixFeed = "feed:"
	prefixRegs = "regs:"
	keyNews    = "news"
	keyEvents  = "events"
)

// New creates a Service. The cacher may be shared with other components;
// the service only touches keys under its own prefixes.
func New(api Backend, bus Publisher, c cache.Cacher, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		api:    api,
		bus:    bus,
		opts:   opts,
		logger: logger,
		news:   cache.NewTypedCache[[]model.News](c, prefixFeed, opts.TTL),
		events: cache.NewTypedCache[[]model.Event](c, prefixFeed, opts.TTL),
		regs:   cache.NewTypedCache[model.EventRegistrations](c, prefixRegs, time.Hour),

		feedGen: make(map[model.Kind]uint64),
	}
}

// DemoMode reports whether writes are refused.
func (s *Service) DemoMode() bool { return s.opts.DemoMode }

// canFallBack reports whether a read failure may be replaced by mock data.
// Authorization failures always propagate.
func (s *Service) canFallBack(err error) bool {
	return s.opts.MockFallback && apiclient.IsTransient(err)
}

// generation returns the write count of kind, read before a backend list
// call and compared again by storeList.
func (s *Service) generation(kind model.Kind) uint64 {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	return s.feedGen[kind]
}

// storeList caches a list fetched at generation gen unless a write to kind
// has committed since.
func storeList[T any](ctx context.Context, s *Service, kind model.Kind, gen uint64, c *cache.TypedCache[T], key string, v *T) {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	if s.feedGen[kind] != gen {
		return
	}
	if err := c.Set(ctx, key, v); err != nil {
		s.logger.Warn("feed cache store failed", "kind", kind, "error", err)
	}
}

// invalidateFeed advances the generation of kind and drops its cached
// list, so the next read goes to the backend. Failures are logged; a stale
// entry expires with its TTL.
func (s *Service) invalidateFeed(ctx context.Context, kind model.Kind) {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	s.feedGen[kind]++

	var err error
	switch kind {
	case model.KindEvent:
		err = s.events.Delete(ctx, keyEvents)
	default:
		err = s.news.Delete(ctx, keyNews)
	}
	if err != nil {
		s.logger.Warn("feed cache invalidation failed", "kind", kind, "error", err)
	}
}

// DropCachedLists removes every cached feed list, including lists another
// process wrote to a shared cache. Called at startup so a list stored by
// an older build is never served.
func (s *Service) DropCachedLists(ctx context.Context) error {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	s.feedGen[model.KindNews]++
	s.feedGen[model.KindEvent]++
	return s.news.Clear(ctx)
}

func (s *Service) publish(kind model.Kind, id int64, op syncbus.Op) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(syncbus.ContentChanged{Kind: kind, ID: id, Op: op, At: time.Now()})
}
