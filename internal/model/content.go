// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"time"
)

// Kind identifies a content type.
type Kind string

// Content kinds.
const (
	KindNews  Kind = "news"
	KindEvent Kind = "event"
)

// ParseKind converts a route segment into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "news":
		return KindNews, nil
	case "event", "events":
		return KindEvent, nil
	default:
		return "", fmt.Errorf("unknown content kind %q", s)
	}
}

// News is a published article.
type News struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Excerpt      string    `json:"excerpt"`
	Category     string    `json:"category"`
	Image        string    `json:"image"`
	ReadTime     string    `json:"read_time"`
	Views        int       `json:"views"`
	Tags         []string  `json:"tags"`
	AuthorID     int64     `json:"author"`
	AuthorName   string    `json:"author_name"`
	AuthorRole   string    `json:"author_role"`
	AuthorAvatar string    `json:"author_avatar"`
	CreatedAt    time.Time `json:"created_at"`
}

// Event is a scheduled community event.
type Event struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Excerpt         string    `json:"excerpt"`
	Category        string    `json:"category"`
	Image           string    `json:"image"`
	Date            time.Time `json:"date"`
	EndDate         time.Time `json:"end_date,omitzero"`
	Location        string    `json:"location"`
	VenueDetails    string    `json:"venue_details"`
	Capacity        int       `json:"capacity"`
	RegisteredCount int       `json:"registered"`
	TicketPrice     string    `json:"ticket_price"`
	Agenda          string    `json:"agenda"`
	ContactEmail    string    `json:"contact_email"`
	AuthorName      string    `json:"author_name"`
	AuthorAvatar    string    `json:"author_avatar"`
	CreatedAt       time.Time `json:"created_at,omitzero"`
}

// SeatsLeft returns the number of free places, never negative.
func (e *Event) SeatsLeft() int {
	if left := e.Capacity - e.RegisteredCount; left > 0 {
		return left
	}
	return 0
}

// Item is a tagged union over the two content kinds.
// Exactly one of News and Event is set, matching Kind.
type Item struct {
	Kind  Kind
	News  *News
	Event *Event
}

// NewsItem wraps an article.
func NewsItem(n News) Item { return Item{Kind: KindNews, News: &n} }

// EventItem wraps an event.
func EventItem(e Event) Item { return Item{Kind: KindEvent, Event: &e} }

// ID returns the identifier of the wrapped value.
func (i Item) ID() int64 {
	switch i.Kind {
	case KindNews:
		if i.News != nil {
			return i.News.ID
		}
	case KindEvent:
		if i.Event != nil {
			return i.Event.ID
		}
	}
	return 0
}

// Title returns the title of the wrapped value.
func (i Item) Title() string {
	switch {
	case i.Kind == KindNews && i.News != nil:
		return i.News.Title
	case i.Kind == KindEvent && i.Event != nil:
		return i.Event.Title
	}
	return ""
}

// Feed is the home page data set.
type Feed struct {
	News   []News  `json:"news"`
	Events []Event `json:"events"`
	// Fallback lists the kinds that were served from mock data.
	Fallback []Kind `json:"fallback,omitempty"`
	// Withheld lists the kinds the backend refused to show this user.
	Withheld []Kind `json:"withheld,omitempty"`
}

// IsFallback reports whether any part of the feed came from mock data.
func (f Feed) IsFallback() bool { return len(f.Fallback) > 0 }

// NewsInput is the writable part of an article.
type NewsInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Image    string `json:"image,omitempty"`
}

// EventInput is the writable part of an event.
type EventInput struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Date         time.Time `json:"date"`
	EndDate      time.Time `json:"end_date,omitzero"`
	Location     string    `json:"location"`
	VenueDetails string    `json:"venue_details,omitempty"`
	Capacity     int       `json:"capacity"`
	TicketPrice  string    `json:"ticket_price"`
	Agenda       string    `json:"agenda,omitempty"`
	Image        string    `json:"image,omitempty"`
}
