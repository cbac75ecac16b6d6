// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/olegiv/connect-web/internal/apiclient"
	"github.com/olegiv/connect-web/internal/model"
	"github.com/olegiv/connect-web/internal/util"
)

// Form limits.
const (
	maxTitleLength = 200
	// dateTimeLocal is the value format of <input type="datetime-local">.
	dateTimeLocal = "2006-01-02T15:04"
)

type formErrors map[string][]string

func (e formErrors) add(field, msg string) { e[field] = append(e[field], msg) }

func newsInputFromRequest(r *http.Request) model.NewsInput {
	return model.NewsInput{
		Title:    strings.TrimSpace(r.FormValue("title")),
		Content:  strings.TrimSpace(r.FormValue("content")),
		Category: strings.TrimSpace(r.FormValue("category")),
		Image:    strings.TrimSpace(r.FormValue("image")),
	}
}

func newsInputFromModel(n *model.News) model.NewsInput {
	return model.NewsInput{Title: n.Title, Content: n.Content, Category: n.Category, Image: n.Image}
}

func validateNews(in model.NewsInput) formErrors {
	errs := formErrors{}
	validateTitle(errs, in.Title)
	if in.Content == "" {
		errs.add("content", "Content is required.")
	}
	validateImage(errs, in.Image)
	return errs
}

// eventForm holds the event form as typed, so that invalid input can be
// shown again unchanged.
type eventForm struct {
	Title        string
	Category     string
	Date         string
	EndDate      string
	Location     string
	VenueDetails string
	Capacity     string
	TicketPrice  string
	Image        string
	Description  string
	Agenda       string
}

func eventFormFromRequest(r *http.Request) eventForm {
	v := func(k string) string { return strings.TrimSpace(r.FormValue(k)) }
	return eventForm{
		Title:        v("title"),
		Category:     v("category"),
		Date:         v("date"),
		EndDate:      v("end_date"),
		Location:     v("location"),
		VenueDetails: v("venue_details"),
		Capacity:     v("capacity"),
		TicketPrice:  v("ticket_price"),
		Image:        v("image"),
		Description:  v("description"),
		Agenda:       v("agenda"),
	}
}

func eventFormFromModel(e *model.Event) eventForm {
	f := eventForm{
		Title:        e.Title,
		Category:     e.Category,
		Date:         e.Date.UTC().Format(dateTimeLocal),
		Location:     e.Location,
		VenueDetails: e.VenueDetails,
		Capacity:     strconv.Itoa(e.Capacity),
		TicketPrice:  e.TicketPrice,
		Image:        e.Image,
		Description:  e.Description,
		Agenda:       e.Agenda,
	}
	if !e.EndDate.IsZero() {
		f.EndDate = e.EndDate.UTC().Format(dateTimeLocal)
	}
	return f
}

// input validates the form and converts it. Times are read as UTC.
func (f eventForm) input() (model.EventInput, formErrors) {
	errs := formErrors{}
	in := model.EventInput{
		Title:        f.Title,
		Description:  f.Description,
		Category:     f.Category,
		Location:     f.Location,
		VenueDetails: f.VenueDetails,
		TicketPrice:  f.TicketPrice,
		Agenda:       f.Agenda,
		Image:        f.Image,
	}

	validateTitle(errs, f.Title)
	if f.Description == "" {
		errs.add("description", "Description is required.")
	}
	if f.Location == "" {
		errs.add("location", "Location is required.")
	}
	validateImage(errs, f.Image)

	if f.Date == "" {
		errs.add("date", "Start date is required.")
	} else if d, err := time.Parse(dateTimeLocal, f.Date); err != nil {
		errs.add("date", "Enter a valid date and time.")
	} else {
		in.Date = d
	}
	if f.EndDate != "" {
		if d, err := time.Parse(dateTimeLocal, f.EndDate); err != nil {
			errs.add("end_date", "Enter a valid date and time.")
		} else if !in.Date.IsZero() && d.Before(in.Date) {
			errs.add("end_date", "The event cannot end before it starts.")
		} else {
			in.EndDate = d
		}
	}

	if f.Capacity != "" {
		n, err := strconv.Atoi(f.Capacity)
		if err != nil || n < 0 {
			errs.add("capacity", "Capacity must be a whole number of zero or more.")
		} else {
			in.Capacity = n
		}
	}
	return in, errs
}

func validateTitle(errs formErrors, title string) {
	switch {
	case title == "":
		errs.add("title", "Title is required.")
	case utf8.RuneCountInString(title) > maxTitleLength:
		errs.add("title", "Title must be at most 200 characters.")
	}
}

func validateImage(errs formErrors, raw string) {
	if raw == "" {
		return
	}
	if len(raw) > util.MaxRemoteURLLength {
		errs.add("image", "Image URL is too long.")
		return
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs.add("image", "Enter a valid http(s) URL.")
	}
}

// mergeErrors adds the backend's field messages to errs and returns the
// backend's form-level message.
func mergeErrors(errs formErrors, fields map[string][]string) string {
	var msg []string
	for k, v := range fields {
		if k == apiclient.NonFieldKey {
			msg = append(msg, v...)
			continue
		}
		errs[k] = append(errs[k], v...)
	}
	return strings.Join(msg, " ")
}
