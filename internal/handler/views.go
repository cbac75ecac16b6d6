// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"strings"

	"github.com/olegiv/connect-web/internal/auth"
	"github.com/olegiv/connect-web/internal/avatar"
	"github.com/olegiv/connect-web/internal/content"
	"github.com/olegiv/connect-web/internal/model"
)

// Region views are rendered both inside full pages and on their own by the
// live streams, so they are built in one place.

type newsRow struct {
	News  model.News
	Badge avatar.Badge
}

// feedView is the data of the feed_region partial.
type feedView struct {
	Fallback bool
	Withheld bool
	News     []newsRow
	Events   []model.Event
}

// newsView is the data of the news_region partial.
type newsView struct {
	News     *model.News
	Badge    avatar.Badge
	Fallback bool
	CanEdit  bool
}

// eventView is the data of the event_region partial.
type eventView struct {
	Event    *model.Event
	Fallback bool
	CanEdit  bool
}

func authorSubject(n model.News) avatar.Subject {
	first, last := splitName(n.AuthorName)
	return avatar.Subject{Name: n.AuthorName, FirstName: first, LastName: last, URL: n.AuthorAvatar}
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], parts[len(parts)-1]
	}
}

func (b *base) badges(ctx context.Context, subjects []avatar.Subject) []avatar.Badge {
	if b.avatars != nil {
		return b.avatars.ResolveAll(ctx, subjects)
	}
	out := make([]avatar.Badge, len(subjects))
	for i, s := range subjects {
		out[i] = avatar.NewBadge(s.Name, s.FirstName, s.LastName)
	}
	return out
}

func (b *base) feedView(ctx context.Context, feed model.Feed) feedView {
	subjects := make([]avatar.Subject, len(feed.News))
	for i, n := range feed.News {
		subjects[i] = authorSubject(n)
	}
	badges := b.badges(ctx, subjects)

	v := feedView{Fallback: feed.IsFallback(), Withheld: len(feed.Withheld) > 0, Events: feed.Events}
	v.News = make([]newsRow, len(feed.News))
	for i, n := range feed.News {
		v.News[i] = newsRow{News: n, Badge: badges[i]}
	}
	return v
}

// detailView returns the region data and partial name for one item.
func (b *base) detailView(ctx context.Context, d content.Detail, caps auth.Capabilities) (any, string) {
	canEdit := caps.CanCreateContent && !d.Fallback
	if d.Kind == model.KindEvent {
		return eventView{Event: d.Event, Fallback: d.Fallback, CanEdit: canEdit}, "event_region"
	}
	badge := b.badges(ctx, []avatar.Subject{authorSubject(*d.News)})[0]
	return newsView{News: d.News, Badge: badge, Fallback: d.Fallback, CanEdit: canEdit}, "news_region"
}
