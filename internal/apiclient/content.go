// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"fmt"

	"github.com/olegiv/connect-web/internal/model"
)

const (
	pathNews   = "/api/content/news/"
	pathEvents = "/api/content/events/"
)

func newsPath(id int64) string  { return fmt.Sprintf("%s%d/", pathNews, id) }
func eventPath(id int64) string { return fmt.Sprintf("%s%d/", pathEvents, id) }

// ListNews returns all articles.
func (c *Client) ListNews(ctx context.Context) ([]model.News, error) {
	var out []model.News
	if err := c.get(ctx, pathNews, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetNews returns one article.
func (c *Client) GetNews(ctx context.Context, id int64) (*model.News, error) {
	var n model.News
	if err := c.get(ctx, newsPath(id), &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateNews publishes an article.
func (c *Client) CreateNews(ctx context.Context, in model.NewsInput) (*model.News, error) {
	var n model.News
	if err := c.post(ctx, pathNews, in, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNews replaces an article.
func (c *Client) UpdateNews(ctx context.Context, id int64, in model.NewsInput) (*model.News, error) {
	var n model.News
	if err := c.put(ctx, newsPath(id), in, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// DeleteNews removes an article.
func (c *Client) DeleteNews(ctx context.Context, id int64) error {
	return c.delete(ctx, newsPath(id))
}

// ListEvents returns all events.
func (c *Client) ListEvents(ctx context.Context) ([]model.Event, error) {
	var out []model.Event
	if err := c.get(ctx, pathEvents, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEvent returns one event.
func (c *Client) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	var e model.Event
	if err := c.get(ctx, eventPath(id), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEvent schedules an event.
func (c *Client) CreateEvent(ctx context.Context, in model.EventInput) (*model.Event, error) {
	var e model.Event
	if err := c.post(ctx, pathEvents, in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateEvent replaces an event.
func (c *Client) UpdateEvent(ctx context.Context, id int64, in model.EventInput) (*model.Event, error) {
	var e model.Event
	if err := c.put(ctx, eventPath(id), in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	return c.delete(ctx, eventPath(id))
}

// EventRegistrations lists the attendees of an event.
func (c *Client) EventRegistrations(ctx context.Context, eventID int64) (*model.EventRegistrations, error) {
	var regs model.EventRegistrations
	if err := c.get(ctx, fmt.Sprintf("%sregistrations/", eventPath(eventID)), &regs); err != nil {
		return nil, err
	}
	regs.EventID = eventID
	return &regs, nil
}

// RemoveRegistration cancels the registration of userID for an event.
func (c *Client) RemoveRegistration(ctx context.Context, eventID, userID int64) error {
	return c.delete(ctx, fmt.Sprintf("%sregistrations/%d/", eventPath(eventID), userID))
}
