// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"

	"github.com/olegiv/connect-web/internal/model"
	"github.com/olegiv/connect-web/internal/syncbus"
)

// Write operations have no fallback. A failure leaves every cached list
// untouched and is returned as *WriteFailure. On success the affected list
// is invalidated, then one notification is published, then the call returns.

func (s *Service) guardWrite(op, target string, id int64) error {
	if s.opts.DemoMode {
		return &WriteFailure{Op: op, Target: target, ID: id, Err: ErrDemoReadOnly}
	}
	return nil
}

func (s *Service) committed(ctx context.Context, kind model.Kind, id int64, op syncbus.Op) {
	s.invalidateFeed(ctx, kind)
	s.publish(kind, id, op)
	s.logger.Info("content changed", "kind", kind, "id", id, "op", op)
}

// CreateNews publishes a news article.
func (s *Service) CreateNews(ctx context.Context, in model.NewsInput) (*model.News, error) {
	if err := s.guardWrite("create", "news", 0); err != nil {
		return nil, err
	}
	n, err := s.api.CreateNews(ctx, in)
	if err != nil {
		return nil, &WriteFailure{Op: "create", Target: "news", Err: err}
	}
	s.committed(ctx, model.KindNews, n.ID, syncbus.OpCreate)
	return n, nil
}

// UpdateNews replaces a news article.
func (s *Service) UpdateNews(ctx context.Context, id int64, in model.NewsInput) (*model.News, error) {
	if err := s.guardWrite("update", "news", id); err != nil {
		return nil, err
	}
	n, err := s.api.UpdateNews(ctx, id, in)
	if err != nil {
		return nil, &WriteFailure{Op: "update", Target: "news", ID: id, Err: err}
	}
	s.committed(ctx, model.KindNews, id, syncbus.OpUpdate)
	return n, nil
}

// DeleteNews removes a news article.
func (s *Service) DeleteNews(ctx context.Context, id int64) error {
	if err := s.guardWrite("delete", "news", id); err != nil {
		return err
	}
	if err := s.api.DeleteNews(ctx, id); err != nil {
		return &WriteFailure{Op: "delete", Target: "news", ID: id, Err: err}
	}
	s.committed(ctx, model.KindNews, id, syncbus.OpDelete)
	return nil
}

// CreateEvent publishes an event.
func (s *Service) CreateEvent(ctx context.Context, in model.EventInput) (*model.Event, error) {
	if err := s.guardWrite("create", "event", 0); err != nil {
		return nil, err
	}
	e, err := s.api.CreateEvent(ctx, in)
	if err != nil {
		return nil, &WriteFailure{Op: "create", Target: "event", Err: err}
	}
	s.committed(ctx, model.KindEvent, e.ID, syncbus.OpCreate)
	return e, nil
}

// UpdateEvent replaces an event.
func (s *Service) UpdateEvent(ctx context.Context, id int64, in model.EventInput) (*model.Event, error) {
	if err := s.guardWrite("update", "event", id); err != nil {
		return nil, err
	}
	e, err := s.api.UpdateEvent(ctx, id, in)
	if err != nil {
		return nil, &WriteFailure{Op: "update", Target: "event", ID: id, Err: err}
	}
	s.committed(ctx, model.KindEvent, id, syncbus.OpUpdate)
	return e, nil
}

// DeleteEvent removes an event.
func (s *Service) DeleteEvent(ctx context.Context, id int64) error {
	if err := s.guardWrite("delete", "event", id); err != nil {
		return err
	}
	if err := s.api.DeleteEvent(ctx, id); err != nil {
		return &WriteFailure{Op: "delete", Target: "event", ID: id, Err: err}
	}
	s.committed(ctx, model.KindEvent, id, syncbus.OpDelete)
	return nil
}
