// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the web front end.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/connect-web/internal/apiclient"
	"github.com/olegiv/connect-web/internal/auth"
	"github.com/olegiv/connect-web/internal/avatar"
	"github.com/olegiv/connect-web/internal/content"
	"github.com/olegiv/connect-web/internal/model"
	"github.com/olegiv/connect-web/internal/render"
	"github.com/olegiv/connect-web/internal/session"
)

// Routes used in redirects.
const (
	RouteLogin = "/login"
	RouteHome  = "/home"
	RouteAdmin = "/admin"
)

// Flash types understood by the templates.
const (
	flashSuccess = "success"
	flashError   = "error"
	flashInfo    = "info"
)

// base holds what every page handler needs.
type base struct {
	store    *session.Store
	content  *content.Service
	renderer *render.Renderer
	avatars  *avatar.Loader
	logger   *slog.Logger
	version  string
}

// page builds the template data shared by all pages from the request
// context filled by the session middleware.
func (b *base) page(r *http.Request, title string, data any) render.TemplateData {
	p := auth.ProfileFromContext(r.Context())
	td := render.TemplateData{
		Title:    title,
		Data:     data,
		User:     p,
		Caps:     auth.Resolve(p),
		DemoMode: b.content.DemoMode(),
		Version:  b.version,
	}
	if p != nil {
		td.Badge = b.badge(r.Context(), p)
	}
	return td
}

func (b *base) badge(ctx context.Context, p *model.UserProfile) avatar.Badge {
	if b.avatars == nil {
		return avatar.NewBadge(p.DisplayName(), p.FirstName, p.LastName)
	}
	return b.avatars.Resolve(ctx, avatar.Subject{
		Name:      p.DisplayName(),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		URL:       p.AvatarURL,
	})
}

func (b *base) render(w http.ResponseWriter, r *http.Request, status int, name string, td render.TemplateData) {
	if err := b.renderer.RenderStatus(w, r, status, name, td); err != nil {
		b.logger.ErrorContext(r.Context(), "render failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// errorPage is the data of pages/error.
type errorPage struct {
	Status  int
	Message string
}

func (b *base) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	b.render(w, r, status, "pages/error", b.page(r, http.StatusText(status), errorPage{Status: status, Message: message}))
}

func (b *base) notFound(w http.ResponseWriter, r *http.Request) {
	b.renderError(w, r, http.StatusNotFound, "The page you are looking for does not exist.")
}

func (b *base) flash(w http.ResponseWriter, r *http.Request, url, message, flashType string) {
	b.renderer.SetFlash(r, message, flashType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// expire ends a session whose token the backend rejected and sends the
// browser to the login page.
func (b *base) expire(w http.ResponseWriter, r *http.Request) {
	b.store.Expire(r.Context())
	b.renderer.SetFlash(r, "Your session has expired. Please log in again.", flashInfo)
	http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
}

// readFailed handles a read that neither succeeded nor fell back to mock
// data.
func (b *base) readFailed(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apiclient.IsUnauthorized(err):
		b.expire(w, r)
	case apiclient.IsKind(err, apiclient.KindForbidden):
		if r.URL.Path == RouteHome {
			b.renderError(w, r, http.StatusForbidden, "Access denied.")
			return
		}
		b.flash(w, r, RouteHome, "Access denied.", flashError)
	case errors.Is(err, content.ErrNotFound), apiclient.IsKind(err, apiclient.KindNotFound):
		b.notFound(w, r)
	default:
		b.logger.ErrorContext(r.Context(), "backend read failed", "error", err)
		b.renderError(w, r, http.StatusBadGateway, "Unable to load this page right now. Please try again later.")
	}
}

// writeMessage returns the message shown for a failed write. The backend's
// own message is preferred.
func writeMessage(err error, what string) string {
	switch {
	case errors.Is(err, content.ErrDemoReadOnly):
		return "Demo mode: changes are disabled."
	case errors.Is(err, content.ErrRegistrationNotFound):
		return "That registration no longer exists. Reload the list and try again."
	case apiclient.IsKind(err, apiclient.KindForbidden):
		return "You don't have permission to do that."
	}
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
		if apiclient.IsTransient(err) {
			return "Unable to reach the server. " + what + " was not saved. Please try again."
		}
	}
	return what + " was not saved. Please try again."
}

// fieldErrors returns the backend's per-field messages of a validation
// failure, or nil.
func fieldErrors(err error) map[string][]string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.Kind == apiclient.KindValidation {
		return apiErr.Fields
	}
	return nil
}

// idParam parses a positive integer URL parameter.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
