// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/hex"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/connect-web/internal/avatar"
	"github.com/olegiv/connect-web/internal/imaging"
)

// AvatarHandler serves avatar thumbnails stored by the avatar loader.
type AvatarHandler struct {
	avatars *avatar.Loader
}

// NewAvatarHandler creates a new AvatarHandler.
func NewAvatarHandler(d Deps) *AvatarHandler {
	return &AvatarHandler{avatars: d.Avatars}
}

// Serve handles GET /avatars/{key}.
func (h *AvatarHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if _, err := hex.DecodeString(key); err != nil || len(key) != 24 || h.avatars == nil {
		http.NotFound(w, r)
		return
	}
	data, ok := h.avatars.Thumbnail(r.Context(), key)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", imaging.ThumbnailContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = w.Write(data)
}
