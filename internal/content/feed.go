// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/connect-web/internal/apiclient"
	"github.com/olegiv/connect-web/internal/model"
)

// FetchFeed loads news and events concurrently. Each kind falls back to the
// mock dataset on its own and a failure of one never cancels the other. A
// kind the caller may not read is left empty and listed in Feed.Withheld.
// Any other failure is returned together with whatever kind did load.
func (s *Service) FetchFeed(ctx context.Context) (model.Feed, error) {
	var (
		feed              model.Feed
		newsFB, evtsFB    bool
		newsErr, eventErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		feed.News, newsFB, newsErr = s.listNews(ctx)
		return nil
	})
	g.Go(func() error {
		feed.Events, evtsFB, eventErr = s.listEvents(ctx)
		return nil
	})
	_ = g.Wait()

	if newsFB {
		feed.Fallback = append(feed.Fallback, model.KindNews)
	}
	if evtsFB {
		feed.Fallback = append(feed.Fallback, model.KindEvent)
	}
	if apiclient.IsKind(newsErr, apiclient.KindForbidden) {
		feed.Withheld = append(feed.Withheld, model.KindNews)
		newsErr = nil
	}
	if apiclient.IsKind(eventErr, apiclient.KindForbidden) {
		feed.Withheld = append(feed.Withheld, model.KindEvent)
		eventErr = nil
	}
	// errors.As stops at the first match, so an expired session leads.
	if apiclient.IsUnauthorized(eventErr) {
		newsErr, eventErr = eventErr, newsErr
	}
	return feed, errors.Join(newsErr, eventErr)
}

func (s *Service) listNews(ctx context.Context) ([]model.News, bool, error) {
	if s.opts.TTL > 0 {
		if cached, ok := s.news.Get(ctx, keyNews); ok {
			return *cached, false, nil
		}
	}

	gen := s.generation(model.KindNews)
	items, err := s.api.ListNews(ctx)
	if err != nil {
		if s.canFallBack(err) {
			s.logger.Warn("news unavailable, using mock data", "error", err)
			return mockNews(), true, nil
		}
		return nil, false, fmt.Errorf("listing news: %w", err)
	}

	if s.opts.TTL > 0 {
		storeList(ctx, s, model.KindNews, gen, s.news, keyNews, &items)
	}
	return items, false, nil
}

func (s *Service) listEvents(ctx context.Context) ([]model.Event, bool, error) {
	if s.opts.TTL > 0 {
		if cached, ok := s.events.Get(ctx, keyEvents); ok {
			return *cached, false, nil
		}
	}

	gen := s.generation(model.KindEvent)
	items, err := s.api.ListEvents(ctx)
	if err != nil {
		if s.canFallBack(err) {
			s.logger.Warn("events unavailable, using mock data", "error", err)
			return mockEvents(), true, nil
		}
		return nil, false, fmt.Errorf("listing events: %w", err)
	}

	if s.opts.TTL > 0 {
		storeList(ctx, s, model.KindEvent, gen, s.events, keyEvents, &items)
	}
	return items, false, nil
}

// Detail is a single item and whether it came from the mock dataset.
type Detail struct {
	model.Item
	Fallback bool
}

// FetchOne loads one item. On a network or server failure it returns the
// mock item with the same id, or ErrNotFound when there is none. A backend
// 404 is ErrNotFound.
func (s *Service) FetchOne(ctx context.Context, kind model.Kind, id int64) (Detail, error) {
	var (
		item model.Item
		err  error
	)
	switch kind {
	case model.KindNews:
		var n *model.News
		if n, err = s.api.GetNews(ctx, id); err == nil {
			item = model.NewsItem(*n)
		}
	case model.KindEvent:
		var e *model.Event
		if e, err = s.api.GetEvent(ctx, id); err == nil {
			item = model.EventItem(*e)
		}
	default:
		return Detail{}, fmt.Errorf("unknown content kind %q", kind)
	}

	if err == nil {
		return Detail{Item: item}, nil
	}
	if apiclient.IsKind(err, apiclient.KindNotFound) {
		return Detail{}, ErrNotFound
	}
	if !s.canFallBack(err) {
		return Detail{}, fmt.Errorf("fetching %s %d: %w", kind, id, err)
	}

	s.logger.Warn("content unavailable, using mock data", "kind", kind, "id", id, "error", err)
	switch kind {
	case model.KindNews:
		if n, ok := mockNewsByID(id); ok {
			return Detail{Item: model.NewsItem(n), Fallback: true}, nil
		}
	case model.KindEvent:
		if e, ok := mockEventByID(id); ok {
			return Detail{Item: model.EventItem(e), Fallback: true}, nil
		}
	}
	return Detail{}, ErrNotFound
}
