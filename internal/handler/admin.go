// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/connect-web/internal/auth"
	"github.com/olegiv/connect-web/internal/avatar"
	"github.com/olegiv/connect-web/internal/content"
	"github.com/olegiv/connect-web/internal/model"
)

// AdminHandler serves the admin panel.
type AdminHandler struct {
	base
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(d Deps) *AdminHandler {
	return &AdminHandler{base: d.base()}
}

type userRow struct {
	User  *model.AdminUser
	Badge avatar.Badge
	Caps  auth.Capabilities
}

type adminPage struct {
	Users          []userRow
	Creators       int
	Admins         int
	Events         []model.EventSummary
	UsersFallback  bool
	EventsFallback bool
}

type registrationsPage struct {
	Regs model.EventRegistrations
}

// Index renders the user list and the events overview.
func (h *AdminHandler) Index(w http.ResponseWriter, r *http.Request) {
	var (
		users  content.Listing[model.AdminUser]
		events content.Listing[model.EventSummary]
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		users, err = h.content.Users(ctx)
		return err
	})
	g.Go(func() (err error) {
		events, err = h.content.AdminEvents(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.readFailed(w, r, err)
		return
	}

	subjects := make([]avatar.Subject, len(users.Items))
	for i, u := range users.Items {
		subjects[i] = avatar.Subject{
			Name:      u.DisplayName(),
			FirstName: u.FirstName,
			LastName:  u.LastName,
			URL:       u.AvatarURL,
		}
	}
	badges := h.badges(r.Context(), subjects)

	data := adminPage{
		Users:          make([]userRow, len(users.Items)),
		Events:         events.Items,
		UsersFallback:  users.Fallback,
		EventsFallback: events.Fallback,
	}
	for i := range users.Items {
		u := &users.Items[i]
		data.Users[i] = userRow{User: u, Badge: badges[i], Caps: auth.Resolve(&u.UserProfile)}
		if u.CanCreateContent {
			data.Creators++
		}
		if u.IsStaff {
			data.Admins++
		}
	}
	h.render(w, r, http.StatusOK, "admin/index", h.page(r, "Admin", data))
}

// SetPermission handles POST /admin/users/{id}/permission.
func (h *AdminHandler) SetPermission(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.flash(w, r, RouteAdmin, "Invalid form data.", flashError)
		return
	}
	allowed, err := strconv.ParseBool(r.FormValue("can_create_content"))
	if err != nil {
		h.flash(w, r, RouteAdmin, "Invalid permission value.", flashError)
		return
	}

	if err := h.content.SetCanCreateContent(r.Context(), id, allowed); err != nil {
		if h.handleWriteError(w, r, err) {
			h.flash(w, r, RouteAdmin, writeMessage(err, "The permission change"), flashError)
		}
		return
	}
	msg := "Content creation revoked."
	if allowed {
		msg = "Content creation granted."
	}
	h.flash(w, r, RouteAdmin, msg, flashSuccess)
}

// SetAvatar handles POST /admin/users/{id}/avatar.
func (h *AdminHandler) SetAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.flash(w, r, RouteAdmin, "Invalid form data.", flashError)
		return
	}
	raw := strings.TrimSpace(r.FormValue("avatar_url"))
	errs := formErrors{}
	if raw == "" {
		errs.add("image", "Avatar URL is required.")
	}
	validateImage(errs, raw)
	if len(errs) > 0 {
		h.flash(w, r, RouteAdmin, errs["image"][0], flashError)
		return
	}

	stored, err := h.content.UpdateAvatar(r.Context(), id, raw)
	if err != nil {
		if h.handleWriteError(w, r, err) {
			h.flash(w, r, RouteAdmin, writeMessage(err, "The avatar"), flashError)
		}
		return
	}
	if h.avatars != nil {
		h.avatars.Forget(r.Context(), stored)
	}
	h.flash(w, r, RouteAdmin, "Avatar updated.", flashSuccess)
}

// DeleteAvatar handles POST /admin/users/{id}/avatar/delete.
func (h *AdminHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := h.content.DeleteAvatar(r.Context(), id); err != nil {
		if h.handleWriteError(w, r, err) {
			h.flash(w, r, RouteAdmin, writeMessage(err, "The avatar removal"), flashError)
		}
		return
	}
	h.flash(w, r, RouteAdmin, "Avatar removed.", flashSuccess)
}

// Registrations renders the attendee list of an event.
func (h *AdminHandler) Registrations(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "eventID")
	if !ok {
		h.notFound(w, r)
		return
	}
	regs, fallback, err := h.content.Registrations(r.Context(), id)
	if err != nil {
		h.readFailed(w, r, err)
		return
	}
	title := regs.EventTitle
	if title == "" {
		title = "Registrations"
	}
	td := h.page(r, title, registrationsPage{Regs: regs})
	td.Fallback = fallback
	h.render(w, r, http.StatusOK, "admin/registrations", td)
}

// RemoveRegistration handles
// POST /admin/events/{eventID}/registrations/{userID}/remove.
func (h *AdminHandler) RemoveRegistration(w http.ResponseWriter, r *http.Request) {
	eventID, ok1 := idParam(r, "eventID")
	userID, ok2 := idParam(r, "userID")
	if !ok1 || !ok2 {
		h.notFound(w, r)
		return
	}
	back := fmt.Sprintf("/admin/events/%d/registrations", eventID)

	if _, err := h.content.RemoveRegistration(r.Context(), eventID, userID); err != nil {
		if h.handleWriteError(w, r, err) {
			h.flash(w, r, back, writeMessage(err, "The removal"), flashError)
		}
		return
	}
	h.flash(w, r, back, "Registration removed.", flashSuccess)
}
