// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olegiv/connect-web/internal/model"
	"github.com/olegiv/connect-web/internal/syncbus"
)

// Listing is an admin read result.
type Listing[T any] struct {
	Items    []T
	Fallback bool
}

// Admin reads are not cached: they depend on the caller's token.

// Users lists all accounts.
func (s *Service) Users(ctx context.Context) (Listing[model.AdminUser], error) {
	users, err := s.api.AdminUsers(ctx)
	if err != nil {
		if s.canFallBack(err) {
			s.logger.Warn("admin users unavailable, using mock data", "error", err)
			return Listing[model.AdminUser]{Items: mockUsers(), Fallback: true}, nil
		}
		return Listing[model.AdminUser]{}, fmt.Errorf("listing users: %w", err)
	}
	return Listing[model.AdminUser]{Items: users}, nil
}

// AdminEvents returns the registration overview of all events.
func (s *Service) AdminEvents(ctx context.Context) (Listing[model.EventSummary], error) {
	events, err := s.api.AdminEvents(ctx)
	if err != nil {
		if s.canFallBack(err) {
			s.logger.Warn("admin events unavailable, using mock data", "error", err)
			return Listing[model.EventSummary]{Items: mockEventSummaries(), Fallback: true}, nil
		}
		return Listing[model.EventSummary]{}, fmt.Errorf("listing admin events: %w", err)
	}
	return Listing[model.EventSummary]{Items: events}, nil
}

// Registrations loads the attendee list of an event and stores it in the
// registration sub-cache, which RemoveRegistration works against.
func (s *Service) Registrations(ctx context.Context, eventID int64) (model.EventRegistrations, bool, error) {
	regs, err := s.api.EventRegistrations(ctx, eventID)
	fallback := false
	if err != nil {
		if !s.canFallBack(err) {
			return model.EventRegistrations{}, false, fmt.Errorf("listing registrations of event %d: %w", eventID, err)
		}
		s.logger.Warn("registrations unavailable, using mock data", "event_id", eventID, "error", err)
		title := ""
		if e, ok := mockEventByID(eventID); ok {
			title = e.Title
		}
		mock := mockRegistrations(eventID, title)
		regs, fallback = &mock, true
	}

	s.regMu.Lock()
	defer s.regMu.Unlock()
	if err := s.regs.Set(ctx, regsKey(eventID), regs); err != nil {
		s.logger.Warn("registration cache write failed", "event_id", eventID, "error", err)
	}
	return *regs, fallback, nil
}

// RemoveRegistration cancels userID's registration for an event. The
// registration must be present in the loaded attendee list; otherwise no
// backend call is made. On success the record is removed and the count
// decremented in a single cache write.
func (s *Service) RemoveRegistration(ctx context.Context, eventID, userID int64) (model.EventRegistrations, error) {
	if err := s.guardWrite("remove", "registration", userID); err != nil {
		return model.EventRegistrations{}, err
	}

	s.regMu.Lock()
	defer s.regMu.Unlock()

	regs, ok := s.regs.Get(ctx, regsKey(eventID))
	if !ok {
		return model.EventRegistrations{}, &WriteFailure{Op: "remove", Target: "registration", ID: userID, Err: ErrRegistrationNotFound}
	}
	i := regs.Find(userID)
	if i < 0 {
		return *regs, &WriteFailure{Op: "remove", Target: "registration", ID: userID, Err: ErrRegistrationNotFound}
	}

	if err := s.api.RemoveRegistration(ctx, eventID, userID); err != nil {
		return *regs, &WriteFailure{Op: "remove", Target: "registration", ID: userID, Err: err}
	}

	updated := regs.Without(i)
	if err := s.regs.Set(ctx, regsKey(eventID), &updated); err != nil {
		// The backend already removed it; drop the stale list instead.
		_ = s.regs.Delete(ctx, regsKey(eventID))
		s.logger.Warn("registration cache write failed", "event_id", eventID, "error", err)
	}
	s.committed(ctx, model.KindEvent, eventID, syncbus.OpUpdate)
	return updated, nil
}

// SetCanCreateContent grants or revokes content creation for a user.
func (s *Service) SetCanCreateContent(ctx context.Context, userID int64, allowed bool) error {
	if err := s.guardWrite("update", "user", userID); err != nil {
		return err
	}
	if err := s.api.SetCanCreateContent(ctx, userID, allowed); err != nil {
		return &WriteFailure{Op: "update", Target: "user", ID: userID, Err: err}
	}
	s.logger.Info("content permission changed", "user_id", userID, "allowed", allowed)
	return nil
}

// UpdateAvatar sets a user's avatar URL and returns the stored value.
func (s *Service) UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (string, error) {
	if err := s.guardWrite("update", "avatar", userID); err != nil {
		return "", err
	}
	stored, err := s.api.UpdateAvatar(ctx, userID, avatarURL)
	if err != nil {
		return "", &WriteFailure{Op: "update", Target: "avatar", ID: userID, Err: err}
	}
	return stored, nil
}

// DeleteAvatar clears a user's avatar.
func (s *Service) DeleteAvatar(ctx context.Context, userID int64) error {
	if err := s.guardWrite("delete", "avatar", userID); err != nil {
		return err
	}
	if err := s.api.DeleteAvatar(ctx, userID); err != nil {
		return &WriteFailure{Op: "delete", Target: "avatar", ID: userID, Err: err}
	}
	return nil
}

func regsKey(eventID int64) string { return strconv.FormatInt(eventID, 10) }
