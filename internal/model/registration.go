// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// EventRegistration joins a user to an event.
type EventRegistration struct {
	ID           int64     `json:"id"`
	EventID      int64     `json:"event"`
	UserID       int64     `json:"user"`
	UserName     string    `json:"user_name"`
	UserEmail    string    `json:"user_email"`
	UserAvatar   string    `json:"user_avatar,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

// EventRegistrations is the admin view of an event's attendee list.
// RegisteredCount and Registrations are kept consistent with each other.
type EventRegistrations struct {
	EventID         int64               `json:"event_id"`
	EventTitle      string              `json:"event_title"`
	Capacity        int                 `json:"capacity"`
	RegisteredCount int                 `json:"current_registrations"`
	Registrations   []EventRegistration `json:"registrations"`
}

// Find returns the index of the registration of userID, or -1.
func (r *EventRegistrations) Find(userID int64) int {
	for i, reg := range r.Registrations {
		if reg.UserID == userID {
			return i
		}
	}
	return -1
}

// Without returns a copy with the registration at index i removed and the
// count decremented. The receiver is not modified.
func (r EventRegistrations) Without(i int) EventRegistrations {
	out := r
	out.Registrations = make([]EventRegistration, 0, len(r.Registrations)-1)
	out.Registrations = append(out.Registrations, r.Registrations[:i]...)
	out.Registrations = append(out.Registrations, r.Registrations[i+1:]...)
	if out.RegisteredCount > 0 {
		out.RegisteredCount--
	}
	return out
}

// EventSummary is a row of the admin events overview.
type EventSummary struct {
	ID                     int64     `json:"id"`
	Title                  string    `json:"title"`
	Date                   time.Time `json:"date"`
	Capacity               int       `json:"capacity"`
	CurrentRegistrations   int       `json:"current_registrations"`
	IsFull                 bool      `json:"is_full"`
	RegistrationPercentage float64   `json:"registration_percentage"`
}
