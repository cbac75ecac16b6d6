// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package avatar

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/connect-web/internal/cache"
	"github.com/olegiv/connect-web/internal/imaging"
	"github.com/olegiv/connect-web/internal/util"
)

// Defaults for the loader.
const (
	ThumbnailSize = 96
	PathPrefix    = "/avatars/"

	thumbTTL   = 6 * time.Hour
	failTTL    = 5 * time.Minute
	maxWorkers = 4
)

const (
	prefixThumb = "avatar:img:"
	prefixFail  = "avatar:fail:"
)

// Subject is a user whose avatar should be resolved.
type Subject struct {
	Name      string
	FirstName string
	LastName  string
	URL       string
}

// Loader fetches avatar images, stores thumbnails and builds badges.
type Loader struct {
	client       *http.Client
	cache        cache.Cacher
	allowPrivate bool
	logger       *slog.Logger
}

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	Timeout time.Duration
	// AllowPrivate permits avatar hosts on private addresses. Development only.
	AllowPrivate bool
	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

// NewLoader creates a Loader storing thumbnails in c.
func NewLoader(c cache.Cacher, cfg LoaderConfig, logger *slog.Logger) *Loader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	client := cfg.Client
	if client == nil {
		client = util.NewRemoteClient(cfg.Timeout, cfg.AllowPrivate)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{client: client, cache: c, allowPrivate: cfg.AllowPrivate, logger: logger}
}

// Key returns the thumbnail key for an avatar URL.
func Key(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:12])
}

// Resolve builds the badge for one subject. It never returns an error: any
// failure to load the image leaves the badge in the Failed state.
func (l *Loader) Resolve(ctx context.Context, s Subject) Badge {
	b := NewBadge(s.Name, s.FirstName, s.LastName)
	if s.URL == "" {
		b.fail()
		return b
	}

	key := Key(s.URL)
	if ok, _ := l.cache.Has(ctx, prefixThumb+key); ok {
		b.load(PathPrefix + key)
		return b
	}
	if ok, _ := l.cache.Has(ctx, prefixFail+key); ok {
		b.fail()
		return b
	}

	thumb, err := l.fetch(ctx, s.URL)
	if err != nil {
		if ctx.Err() == nil {
			l.logger.Debug("avatar unavailable", "url", s.URL, "error", err)
			_ = l.cache.Set(ctx, prefixFail+key, []byte{1}, failTTL)
		}
		b.fail()
		return b
	}

	if err := l.cache.Set(ctx, prefixThumb+key, thumb, thumbTTL); err != nil {
		l.logger.Warn("storing avatar thumbnail failed", "error", err)
		b.fail()
		return b
	}
	b.load(PathPrefix + key)
	return b
}

// ResolveAll resolves badges concurrently. The result has the same order
// as subjects.
func (l *Loader) ResolveAll(ctx context.Context, subjects []Subject) []Badge {
	badges := make([]Badge, len(subjects))
	var g errgroup.Group
	g.SetLimit(maxWorkers)
	for i, s := range subjects {
		g.Go(func() error {
			badges[i] = l.Resolve(ctx, s)
			return nil
		})
	}
	_ = g.Wait()
	return badges
}

// Thumbnail returns a stored thumbnail.
func (l *Loader) Thumbnail(ctx context.Context, key string) ([]byte, bool) {
	data, err := l.cache.Get(ctx, prefixThumb+key)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Forget drops the stored thumbnail and failure marker for a URL.
func (l *Loader) Forget(ctx context.Context, rawURL string) {
	key := Key(rawURL)
	_ = l.cache.Delete(ctx, prefixThumb+key)
	_ = l.cache.Delete(ctx, prefixFail+key)
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if !l.allowPrivate {
		if _, err := util.CheckRemoteURL(rawURL); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, imaging.MaxSourceBytes+1))
	if err != nil {
		return nil, err
	}
	return imaging.Thumbnail(data, ThumbnailSize)
}
