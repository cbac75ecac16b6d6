// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"

	"github.com/olegiv/connect-web/internal/apiclient"
	"github.com/olegiv/connect-web/internal/model"
)

// ContentHandler creates, edits and deletes news and events.
type ContentHandler struct {
	base
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(d Deps) *ContentHandler {
	return &ContentHandler{base: d.base()}
}

type createPage struct {
	Kind    string
	News    model.NewsInput
	Event   eventForm
	Errors  formErrors
	Message string
}

type editNewsPage struct {
	ID      int64
	News    model.NewsInput
	Errors  formErrors
	Message string
}

type editEventPage struct {
	ID      int64
	Event   eventForm
	Errors  formErrors
	Message string
}

// CreateForm renders the create page. ?kind=event selects the event form.
func (h *ContentHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	kind := string(model.KindNews)
	if k, err := model.ParseKind(r.URL.Query().Get("kind")); err == nil {
		kind = string(k)
	}
	h.render(w, r, http.StatusOK, "pages/create", h.page(r, "Create", createPage{Kind: kind}))
}

// CreateNews handles POST /create/news.
func (h *ContentHandler) CreateNews(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flash(w, r, "/create", "Invalid form data.", flashError)
		return
	}
	in := newsInputFromRequest(r)
	data := createPage{Kind: string(model.KindNews), News: in}

	if errs := validateNews(in); len(errs) > 0 {
		data.Errors = errs
		h.render(w, r, http.StatusUnprocessableEntity, "pages/create", h.page(r, "Create", data))
		return
	}

	n, err := h.content.CreateNews(r.Context(), in)
	if err != nil {
		if !h.handleWriteError(w, r, err) {
			return
		}
		data.Errors = formErrors{}
		data.Message = mergeErrors(data.Errors, fieldErrors(err))
		if data.Message == "" {
			data.Message = writeMessage(err, "The article")
		}
		h.render(w, r, writeStatus(err), "pages/create", h.page(r, "Create", data))
		return
	}

	h.flash(w, r, fmt.Sprintf("/news/%d", n.ID), "Article published.", flashSuccess)
}

// CreateEvent handles POST /create/event.
func (h *ContentHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flash(w, r, "/create?kind=event", "Invalid form data.", flashError)
		return
	}
	form := eventFormFromRequest(r)
	data := createPage{Kind: string(model.KindEvent), Event: form}

	in, errs := form.input()
	if len(errs) > 0 {
		data.Errors = errs
		h.render(w, r, http.StatusUnprocessableEntity, "pages/create", h.page(r, "Create", data))
		return
	}

	e, err := h.content.CreateEvent(r.Context(), in)
	if err != nil {
		if !h.handleWriteError(w, r, err) {
			return
		}
		data.Errors = formErrors{}
		data.Message = mergeErrors(data.Errors, fieldErrors(err))
		if data.Message == "" {
			data.Message = writeMessage(err, "The event")
		}
		h.render(w, r, writeStatus(err), "pages/create", h.page(r, "Create", data))
		return
	}

	h.flash(w, r, fmt.Sprintf("/events/%d", e.ID), "Event published.", flashSuccess)
}

// EditNewsForm renders the edit page of an article.
func (h *ContentHandler) EditNewsForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	d, err := h.content.FetchOne(r.Context(), model.KindNews, id)
	if err != nil {
		h.readFailed(w, r, err)
		return
	}
	if d.Fallback {
		h.flash(w, r, fmt.Sprintf("/news/%d", id), "Sample content cannot be edited.", flashError)
		return
	}
	h.render(w, r, http.StatusOK, "pages/edit_news", h.page(r, "Edit article", editNewsPage{ID: id, News: newsInputFromModel(d.News)}))
}

// UpdateNews handles POST /news/{id}/edit.
func (h *ContentHandler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.flash(w, r, fmt.Sprintf("/news/%d/edit", id), "Invalid form data.", flashError)
		return
	}
	in := newsInputFromRequest(r)
	data := editNewsPage{ID: id, News: in}

	if errs := validateNews(in); len(errs) > 0 {
		data.Errors = errs
		h.render(w, r, http.StatusUnprocessableEntity, "pages/edit_news", h.page(r, "Edit article", data))
		return
	}

	if _, err := h.content.UpdateNews(r.Context(), id, in); err != nil {
		if !h.handleWriteError(w, r, err) {
			return
		}
		data.Errors = formErrors{}
		data.Message = mergeErrors(data.Errors, fieldErrors(err))
		if data.Message == "" {
			data.Message = writeMessage(err, "The article")
		}
		h.render(w, r, writeStatus(err), "pages/edit_news", h.page(r, "Edit article", data))
		return
	}

	h.flash(w, r, fmt.Sprintf("/news/%d", id), "Article updated.", flashSuccess)
}

// DeleteNews handles POST /news/{id}/delete.
func (h *ContentHandler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := h.content.DeleteNews(r.Context(), id); err != nil {
		if h.handleWriteError(w, r, err) {
			h.flash(w, r, fmt.Sprintf("/news/%d", id), writeMessage(err, "The deletion"), flashError)
		}
		return
	}
	h.flash(w, r, RouteHome, "Article deleted.", flashSuccess)
}

// EditEventForm renders the edit page of an event.
func (h *ContentHandler) EditEventForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	d, err := h.content.FetchOne(r.Context(), model.KindEvent, id)
	if err != nil {
		h.readFailed(w, r, err)
		return
	}
	if d.Fallback {
		h.flash(w, r, fmt.Sprintf("/events/%d", id), "Sample content cannot be edited.", flashError)
		return
	}
	h.render(w, r, http.StatusOK, "pages/edit_event", h.page(r, "Edit event", editEventPage{ID: id, Event: eventFormFromModel(d.Event)}))
}

// UpdateEvent handles POST /events/{id}/edit.
func (h *ContentHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.flash(w, r, fmt.Sprintf("/events/%d/edit", id), "Invalid form data.", flashError)
		return
	}
	form := eventFormFromRequest(r)
	data := editEventPage{ID: id, Event: form}

	in, errs := form.input()
	if len(errs) > 0 {
		data.Errors = errs
		h.render(w, r, http.StatusUnprocessableEntity, "pages/edit_event", h.page(r, "Edit event", data))
		return
	}

	if _, err := h.content.UpdateEvent(r.Context(), id, in); err != nil {
		if !h.handleWriteError(w, r, err) {
			return
		}
		data.Errors = formErrors{}
		data.Message = mergeErrors(data.Errors, fieldErrors(err))
		if data.Message == "" {
			data.Message = writeMessage(err, "The event")
		}
		h.render(w, r, writeStatus(err), "pages/edit_event", h.page(r, "Edit event", data))
		return
	}

	h.flash(w, r, fmt.Sprintf("/events/%d", id), "Event updated.", flashSuccess)
}

// DeleteEvent handles POST /events/{id}/delete.
func (h *ContentHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := h.content.DeleteEvent(r.Context(), id); err != nil {
		if h.handleWriteError(w, r, err) {
			h.flash(w, r, fmt.Sprintf("/events/%d", id), writeMessage(err, "The deletion"), flashError)
		}
		return
	}
	h.flash(w, r, RouteHome, "Event deleted.", flashSuccess)
}

// handleWriteError logs a failed write and deals with a rejected token.
// It returns false when the response has been written.
func (b *base) handleWriteError(w http.ResponseWriter, r *http.Request, err error) bool {
	b.logger.WarnContext(r.Context(), "write failed", "error", err)
	if apiclient.IsUnauthorized(err) {
		b.expire(w, r)
		return false
	}
	return true
}

func writeStatus(err error) int {
	switch {
	case apiclient.IsKind(err, apiclient.KindValidation):
		return http.StatusUnprocessableEntity
	case apiclient.IsKind(err, apiclient.KindForbidden):
		return http.StatusForbidden
	case apiclient.IsTransient(err):
		return http.StatusBadGateway
	default:
		return http.StatusConflict
	}
}
