// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render executes the embedded HTML templates.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/connect-web/internal/auth"
	"github.com/olegiv/connect-web/internal/avatar"
	"github.com/olegiv/connect-web/internal/model"
)

// Page directories. Every page is parsed together with the base layout
// and all partials; its name is "<dir>/<file without .html>".
var pageDirs = []string{"auth", "pages", "admin"}

const baseLayout = "layouts/base.html"

// Session keys for flash messages.
const (
	flashKey     = "flash"
	flashTypeKey = "flash_type"
)

// Renderer handles template rendering.
type Renderer struct {
	pages    map[string]*template.Template
	partials *template.Template
	sm       *scs.SessionManager
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
}

// New parses all templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		pages: make(map[string]*template.Template),
		sm:    cfg.SessionManager,
	}
	if err := r.parse(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) parse(fsys fs.FS) error {
	partials, err := htmlFiles(fsys, "partials")
	if err != nil {
		return fmt.Errorf("listing partials: %w", err)
	}

	if len(partials) > 0 {
		r.partials, err = template.New("").Funcs(Funcs()).ParseFS(fsys, partials...)
		if err != nil {
			return fmt.Errorf("parsing partials: %w", err)
		}
	} else {
		r.partials = template.New("").Funcs(Funcs())
	}

	for _, dir := range pageDirs {
		pages, err := htmlFiles(fsys, dir)
		if err != nil {
			return fmt.Errorf("listing %s: %w", dir, err)
		}
		for _, p := range pages {
			name := dir + "/" + strings.TrimSuffix(path.Base(p), ".html")

			files := append([]string{baseLayout}, partials...)
			files = append(files, p)

			tmpl, err := template.New("").Funcs(Funcs()).ParseFS(fsys, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.pages[name] = tmpl
		}
	}
	return nil
}

// htmlFiles lists the .html files of dir. A missing directory is empty.
func htmlFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, nil
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".html") {
			files = append(files, path.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// TemplateData is passed to every page.
type TemplateData struct {
	Title     string
	Data      any
	Flash     string
	FlashType string
	Year      int

	// Identity of the viewer. Caps is derived per request, never stored.
	User  *model.UserProfile
	Caps  auth.Capabilities
	Badge avatar.Badge

	// Fallback is set when the page shows mock data.
	Fallback bool
	DemoMode bool
	// LiveURL is the event stream the page subscribes to, if any.
	LiveURL string
	Version string
}

// Render renders a page with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a page with the given status code. Output is
// buffered so that a template error never produces a partial page.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.Year = time.Now().Year()
	if r.sm != nil {
		if flash := r.sm.PopString(req.Context(), flashKey); flash != "" {
			data.Flash = flash
			data.FlashType = r.sm.PopString(req.Context(), flashTypeKey)
			if data.FlashType == "" {
				data.FlashType = "info"
			}
		}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Partial renders a named partial template into w. Live views use it to
// push refreshed regions.
func (r *Renderer) Partial(w io.Writer, name string, data any) error {
	if r.partials.Lookup(name) == nil {
		return fmt.Errorf("partial %s not found", name)
	}
	return r.partials.ExecuteTemplate(w, name, data)
}

// SetFlash stores a flash message shown on the next rendered page.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sm == nil {
		return
	}
	r.sm.Put(req.Context(), flashKey, message)
	r.sm.Put(req.Context(), flashTypeKey, flashType)
}
