// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for session gating, role
// checks, request context, security and metrics.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/connect-web/internal/auth"
	"github.com/olegiv/connect-web/internal/model"
	"github.com/olegiv/connect-web/internal/session"
)

// Gate is the part of the session store the auth middleware needs.
type Gate interface {
	Current(ctx context.Context) (*model.UserProfile, error)
	APIContext(ctx context.Context) context.Context
}

// Flasher stores a message for the next rendered page.
type Flasher interface {
	SetFlash(r *http.Request, message, flashType string)
}

// Paths used by redirects.
const (
	LoginPath = "/login"
	HomePath  = "/home"
)

// Messages shown when a gate redirects.
const (
	msgSessionExpired = "Your session has expired. Please log in again."
	msgAdminOnly      = "Access denied. Admin privileges required."
	msgCreatorOnly    = "You don't have permission to create content."
)

// RequireSession loads the signed-in profile into the request context and
// attaches the bearer token for backend calls. Without a valid session it
// redirects to the login page before any handler runs.
func RequireSession(gate Gate, flash Flasher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := gate.Current(r.Context())
			if err != nil {
				if errors.Is(err, session.ErrSessionExpired) && flash != nil {
					flash.SetFlash(r, msgSessionExpired, "info")
				}
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			ctx := auth.WithProfile(gate.APIContext(r.Context()), p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectIfAuthenticated sends signed-in users away from the login and
// registration pages. It only looks at the stored token.
func RedirectIfAuthenticated(store interface{ Authenticated(context.Context) bool }) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet && store.Authenticated(r.Context()) {
				http.Redirect(w, r, HomePath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireCapability redirects to the home page with a flash message when
// the current user lacks a capability. It is not an error page.
func RequireCapability(allowed func(auth.Capabilities) bool, message string, flash Flasher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caps := auth.FromContext(r.Context())
			if !caps.Authenticated {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			if !allowed(caps) {
				p := auth.ProfileFromContext(r.Context())
				slog.WarnContext(r.Context(), "access denied",
					"method", r.Method,
					"user_id", p.ID,
					"role", caps.RoleLabel(),
				)
				if flash != nil {
					flash.SetFlash(r, message, "error")
				}
				http.Redirect(w, r, HomePath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin allows staff and superusers.
func RequireAdmin(flash Flasher) func(http.Handler) http.Handler {
	return RequireCapability(func(c auth.Capabilities) bool { return c.IsAdmin }, msgAdminOnly, flash)
}

// RequireCreator allows users who may create content.
func RequireCreator(flash Flasher) func(http.Handler) http.Handler {
	return RequireCapability(func(c auth.Capabilities) bool { return c.CanCreateContent }, msgCreatorOnly, flash)
}
