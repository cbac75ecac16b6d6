// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session keeps the signed-in identity of a browser: the backend
// token pair and the cached profile, persisted server-side through scs.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session lifetimes. A session outlives no access token the backend issues
// in practice; an older token is rejected by the backend and expires the
// session anyway.
const (
	Lifetime        = 24 * time.Hour
	IdleTimeout     = 12 * time.Hour
	CleanupInterval = 10 * time.Minute
)

// Cookie names. Production uses the __Host- prefix, which browsers only
// accept on secure, host-only cookies with Path=/.
const (
	cookieName       = "connect_session"
	secureCookieName = "__Host-connect_session"
)

// New creates the session manager backed by the sessions table of db.
// Expired rows are purged every CleanupInterval.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.NewWithCleanupInterval(db, CleanupInterval)

	sm.Lifetime = Lifetime
	sm.IdleTimeout = IdleTimeout
	sm.Cookie.Name = cookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Path = "/"
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = secureCookieName
	}
	return sm
}
