// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/connect-web/internal/avatar"
	"github.com/olegiv/connect-web/internal/cache"
	"github.com/olegiv/connect-web/internal/content"
	"github.com/olegiv/connect-web/internal/geoip"
	"github.com/olegiv/connect-web/internal/middleware"
	"github.com/olegiv/connect-web/internal/render"
	"github.com/olegiv/connect-web/internal/scheduler"
	"github.com/olegiv/connect-web/internal/session"
	"github.com/olegiv/connect-web/internal/syncbus"
)

// Deps are the collaborators of the handlers.
type Deps struct {
	Store    *session.Store
	Content  *content.Service
	Renderer *render.Renderer
	Avatars  *avatar.Loader
	Bus      *syncbus.Bus
	Metrics  *middleware.Metrics
	Throttle *middleware.LoginThrottle
	// GeoIP annotates sign-in logs with a country. Optional.
	GeoIP    *geoip.Locator
	CSRF     middleware.CSRFConfig
	Security middleware.SecurityHeadersConfig
	// Static serves /static/*. Paths are looked up as "static/...".
	Static    fs.FS
	DB        *sql.DB
	CacheType string
	// Cache is reported on /health. Optional.
	Cache cache.Cacher
	// Scheduler's jobs are reported on /health. Optional.
	Scheduler *scheduler.Scheduler
	Heartbeat time.Duration
	Logger    *slog.Logger
	Version   string
}

func (d Deps) base() base {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return base{
		store:    d.Store,
		content:  d.Content,
		renderer: d.Renderer,
		avatars:  d.Avatars,
		logger:   logger,
		version:  d.Version,
	}
}

// NewRouter builds the application router.
func NewRouter(d Deps) *chi.Mux {
	authH := NewAuthHandler(d)
	feedH := NewFeedHandler(d)
	contentH := NewContentHandler(d)
	profileH := NewProfileHandler(d)
	adminH := NewAdminHandler(d)
	liveH := NewLiveHandler(d)
	sm := d.Store.Manager()

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestContext)
	if d.Metrics != nil {
		r.Use(d.Metrics.Instrument)
	}
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(d.Security))

	r.Get("/health", NewHealthHandler(d).ServeHTTP)
	r.Get("/avatars/{key}", NewAvatarHandler(d).Serve)
	if d.Static != nil {
		static := http.FileServer(http.FS(d.Static))
		r.Handle("/static/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	}

	r.Group(func(r chi.Router) {
		r.Use(sm.LoadAndSave)
		csrfCfg := d.CSRF
		if d.Metrics != nil && csrfCfg.OnReject == nil {
			csrfCfg.OnReject = d.Metrics.CSRFRejected
		}
		r.Use(middleware.CSRF(csrfCfg))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, RouteHome, http.StatusSeeOther)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RedirectIfAuthenticated(d.Store))
			if d.Throttle != nil {
				r.Use(d.Throttle.Middleware)
			}
			r.Get("/login", authH.LoginForm)
			r.Post("/login", authH.Login)
			r.Get("/register", authH.RegisterForm)
			r.Post("/register", authH.Register)
		})
		r.Post("/logout", authH.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(d.Store, d.Renderer))

			r.Get("/home", feedH.Home)
			r.Get("/news/{id}", feedH.News)
			r.Get("/events/{id}", feedH.Event)
			r.Get("/profile", profileH.Show)
			r.Post("/profile", profileH.Update)

			r.Route("/live", func(r chi.Router) {
				r.Get("/feed", liveH.Feed)
				r.Get("/news/{id}", liveH.News)
				r.Get("/events/{id}", liveH.Event)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCreator(d.Renderer))
				r.Get("/create", contentH.CreateForm)
				r.Post("/create/news", contentH.CreateNews)
				r.Post("/create/event", contentH.CreateEvent)
				r.Get("/news/{id}/edit", contentH.EditNewsForm)
				r.Post("/news/{id}/edit", contentH.UpdateNews)
				r.Post("/news/{id}/delete", contentH.DeleteNews)
				r.Get("/events/{id}/edit", contentH.EditEventForm)
				r.Post("/events/{id}/edit", contentH.UpdateEvent)
				r.Post("/events/{id}/delete", contentH.DeleteEvent)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin(d.Renderer))
				r.Get("/", adminH.Index)
				r.Post("/users/{id}/permission", adminH.SetPermission)
				r.Post("/users/{id}/avatar", adminH.SetAvatar)
				r.Post("/users/{id}/avatar/delete", adminH.DeleteAvatar)
				r.Get("/events/{eventID}/registrations", adminH.Registrations)
				r.Post("/events/{eventID}/registrations/{userID}/remove", adminH.RemoveRegistration)
			})
		})
	})

	b := d.base()
	r.NotFound(sm.LoadAndSave(http.HandlerFunc(b.notFound)).ServeHTTP)
	return r
}
