// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"

	"github.com/olegiv/connect-web/internal/auth"
	"github.com/olegiv/connect-web/internal/model"
)

// FeedHandler serves the home feed and the detail pages.
type FeedHandler struct {
	base
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(d Deps) *FeedHandler {
	return &FeedHandler{base: d.base()}
}

// TeamMember is an entry of the static team section.
type TeamMember struct {
	Name     string
	Role     string
	Initials string
	Bio      string
	Skills   []string
}

var team = []TeamMember{
	{
		Name:     "Alex Rodriguez",
		Role:     "Lead Developer & Co-Founder",
		Initials: "AR",
		Bio:      "Full-stack developer with 8+ years of experience in building scalable web applications.",
		Skills:   []string{"React", "Node.js", "Python", "AWS"},
	},
	{
		Name:     "Sarah Chen",
		Role:     "UI/UX Designer & Co-Founder",
		Initials: "SC",
		Bio:      "Creative designer passionate about crafting intuitive and beautiful user experiences.",
		Skills:   []string{"Figma", "Adobe Creative Suite", "User Research", "Prototyping"},
	},
	{
		Name:     "Marcus Johnson",
		Role:     "Backend Engineer",
		Initials: "MJ",
		Bio:      "Backend specialist focused on building robust APIs and optimizing system performance.",
		Skills:   []string{"Django", "PostgreSQL", "Redis", "Docker"},
	},
	{
		Name:     "Elena Vasquez",
		Role:     "Product Manager",
		Initials: "EV",
		Bio:      "Product strategist with expertise in user-centered design and agile development.",
		Skills:   []string{"Product Strategy", "User Analytics", "Agile", "Market Research"},
	},
}

type homePage struct {
	Feed feedView
	Team []TeamMember
}

// Home renders the feed of news and events.
func (h *FeedHandler) Home(w http.ResponseWriter, r *http.Request) {
	feed, err := h.content.FetchFeed(r.Context())
	if err != nil {
		h.readFailed(w, r, err)
		return
	}

	td := h.page(r, "Home", homePage{Feed: h.feedView(r.Context(), feed), Team: team})
	td.LiveURL = "/live/feed"
	h.render(w, r, http.StatusOK, "pages/home", td)
}

// News renders one article.
func (h *FeedHandler) News(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, model.KindNews, "pages/news")
}

// Event renders one event.
func (h *FeedHandler) Event(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, model.KindEvent, "pages/event")
}

func (h *FeedHandler) detail(w http.ResponseWriter, r *http.Request, kind model.Kind, tmpl string) {
	id, ok := idParam(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}

	d, err := h.content.FetchOne(r.Context(), kind, id)
	if err != nil {
		h.readFailed(w, r, err)
		return
	}

	view, _ := h.detailView(r.Context(), d, auth.FromContext(r.Context()))
	td := h.page(r, d.Title(), view)
	td.LiveURL = fmt.Sprintf("/live/%s/%d", livePath(kind), id)
	h.render(w, r, http.StatusOK, tmpl, td)
}

func livePath(kind model.Kind) string {
	if kind == model.KindEvent {
		return "events"
	}
	return "news"
}
