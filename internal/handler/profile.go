// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/olegiv/connect-web/internal/auth"
	"github.com/olegiv/connect-web/internal/model"
	"github.com/olegiv/connect-web/internal/session"
)

const maxNameLength = 150

// ProfileHandler shows and edits the signed-in user's profile.
type ProfileHandler struct {
	base
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(d Deps) *ProfileHandler {
	return &ProfileHandler{base: d.base()}
}

type profilePage struct {
	Form    model.ProfileUpdate
	Errors  formErrors
	Message string
}

// Show renders the profile page.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	p := auth.ProfileFromContext(r.Context())
	form := model.ProfileUpdate{FirstName: p.FirstName, LastName: p.LastName}
	h.render(w, r, http.StatusOK, "pages/profile", h.page(r, "Profile", profilePage{Form: form}))
}

// Update handles POST /profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flash(w, r, "/profile", "Invalid form data.", flashError)
		return
	}
	upd := model.ProfileUpdate{
		FirstName: strings.TrimSpace(r.FormValue("first_name")),
		LastName:  strings.TrimSpace(r.FormValue("last_name")),
	}

	errs := formErrors{}
	if utf8.RuneCountInString(upd.FirstName) > maxNameLength {
		errs.add("first_name", "First name must be at most 150 characters.")
	}
	if utf8.RuneCountInString(upd.LastName) > maxNameLength {
		errs.add("last_name", "Last name must be at most 150 characters.")
	}
	if len(errs) > 0 {
		h.render(w, r, http.StatusUnprocessableEntity, "pages/profile", h.page(r, "Profile", profilePage{Form: upd, Errors: errs}))
		return
	}

	_, err := h.store.UpdateProfile(r.Context(), upd)
	if err != nil {
		if errors.Is(err, session.ErrSessionExpired) || errors.Is(err, session.ErrUnauthenticated) {
			h.renderer.SetFlash(r, "Your session has expired. Please log in again.", flashInfo)
			http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
			return
		}
		h.logger.WarnContext(r.Context(), "profile update failed", "error", err)
		data := profilePage{Form: upd, Errors: formErrors{}}
		data.Message = mergeErrors(data.Errors, fieldErrors(err))
		if data.Message == "" {
			data.Message = writeMessage(err, "Your profile")
		}
		h.render(w, r, writeStatus(err), "pages/profile", h.page(r, "Profile", data))
		return
	}

	h.flash(w, r, "/profile", "Profile updated.", flashSuccess)
}
