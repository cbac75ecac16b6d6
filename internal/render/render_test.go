// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/olegiv/connect-web/internal/auth"
	"github.com/olegiv/connect-web/internal/model"
	"github.com/olegiv/connect-web/web"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html":    {Data: []byte(`{{define "base"}}<title>{{.Title}}</title>{{if .Flash}}<p class="{{.FlashType}}">{{.Flash}}</p>{{end}}{{template "content" .}}{{end}}`)},
		"partials/greet.html":  {Data: []byte(`{{define "greet"}}hello {{.}}{{end}}`)},
		"pages/home.html":      {Data: []byte(`{{define "content"}}{{template "greet" .Data}}{{end}}`)},
		"auth/login.html":      {Data: []byte(`{{define "content"}}login{{end}}`)},
		"admin/index.html":     {Data: []byte(`{{define "content"}}{{.Caps.IsAdmin}}{{end}}`)},
		"pages/broken.html":    {Data: []byte(`{{define "content"}}{{.Data.Missing.Field}}{{end}}`)},
		"pages/not-a-page.txt": {Data: []byte(`ignored`)},
	}
}

func TestNew_ParsesPageDirs(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, name := range []string{"pages/home", "auth/login", "admin/index", "pages/broken"} {
		if !r.Has(name) {
			t.Errorf("missing template %s", name)
		}
	}
	if r.Has("pages/not-a-page") {
		t.Error("non-html file should be ignored")
	}
}

func TestRender(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	if err := r.Render(w, req, "pages/home", TemplateData{Title: "Home", Data: "world"}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := w.Body.String(); !strings.Contains(body, "hello world") || !strings.Contains(body, "<title>Home</title>") {
		t.Errorf("unexpected body %q", body)
	}
}

func TestRenderStatus(t *testing.T) {
	r, _ := New(Config{TemplatesFS: testFS()})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)

	caps := auth.Resolve(&model.UserProfile{IsStaff: true})
	if err := r.RenderStatus(w, req, http.StatusForbidden, "admin/index", TemplateData{Caps: caps}); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "true") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestRender_ErrorsWriteNothing(t *testing.T) {
	r, _ := New(Config{TemplatesFS: testFS()})
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	w := httptest.NewRecorder()
	if err := r.Render(w, req, "pages/missing", TemplateData{}); err == nil {
		t.Error("expected error for unknown template")
	}

	w = httptest.NewRecorder()
	if err := r.Render(w, req, "pages/broken", TemplateData{Data: 42}); err == nil {
		t.Error("expected execution error")
	}
	if w.Body.Len() != 0 {
		t.Errorf("partial output written: %q", w.Body.String())
	}
}

func TestPartial(t *testing.T) {
	r, _ := New(Config{TemplatesFS: testFS()})
	var buf bytes.Buffer
	if err := r.Partial(&buf, "greet", "live"); err != nil {
		t.Fatalf("Partial: %v", err)
	}
	if buf.String() != "hello live" {
		t.Errorf("got %q", buf.String())
	}
	if err := r.Partial(&buf, "nope", nil); err == nil {
		t.Error("expected error for unknown partial")
	}
}

func TestEmbeddedTemplatesParse(t *testing.T) {
	r, err := New(Config{TemplatesFS: web.TemplatesFS()})
	if err != nil {
		t.Fatalf("parsing embedded templates: %v", err)
	}
	for _, name := range []string{
		"auth/login", "auth/register",
		"pages/home", "pages/news", "pages/event", "pages/create",
		"pages/edit_news", "pages/edit_event", "pages/profile", "pages/error",
		"admin/index", "admin/registrations",
	} {
		if !r.Has(name) {
			t.Errorf("missing embedded template %s", name)
		}
	}
	for _, name := range []string{"feed_region", "news_region", "event_region"} {
		if r.partials.Lookup(name) == nil {
			t.Errorf("missing partial %s", name)
		}
	}
}
