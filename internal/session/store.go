// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/connect-web/internal/apiclient"
	"github.com/olegiv/connect-web/internal/model"
)

// Session keys.
const (
	KeyAccessToken      = "access_token"
	KeyRefreshToken     = "refresh_token"
	KeyUserProfile      = "user_profile"
	KeyProfileFetchedAt = "profile_fetched_at"
)

// DefaultProfileMaxAge bounds how long a cached profile is trusted before
// Current refetches it. Permission changes made on the backend take effect
// within this window.
const DefaultProfileMaxAge = 5 * time.Minute

// Session is the state established by login or registration.
type Session struct {
	AccessToken  string
	RefreshToken string
	Profile      *model.UserProfile
}

// Backend is the part of the API client the store depends on.
type Backend interface {
	Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error)
	Register(ctx context.Context, reg model.Registration) (*model.AuthResponse, error)
	Profile(ctx context.Context) (*model.UserProfile, error)
	UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (*model.UserProfile, error)
}

// Store is the single owner of the signed-in state. Every method takes the
// request context that scs loaded the session into.
type Store struct {
	sm            *scs.SessionManager
	api           Backend
	logger        *slog.Logger
	watchers      *watchers
	profileMaxAge time.Duration
	now           func() time.Time
}

// NewStore creates a session store backed by sm.
func NewStore(sm *scs.SessionManager, api Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sm:            sm,
		api:           api,
		logger:        logger,
		watchers:      newWatchers(),
		profileMaxAge: DefaultProfileMaxAge,
		now:           time.Now,
	}
}

// SetProfileMaxAge overrides DefaultProfileMaxAge. Zero forces a refetch on
// every Current call.
func (s *Store) SetProfileMaxAge(d time.Duration) { s.profileMaxAge = d }

// Manager returns the underlying scs session manager.
func (s *Store) Manager() *scs.SessionManager { return s.sm }

// AccessToken returns the stored bearer token, or "".
func (s *Store) AccessToken(ctx context.Context) string {
	return s.sm.GetString(ctx, KeyAccessToken)
}

// Authenticated reports whether an access token is stored.
func (s *Store) Authenticated(ctx context.Context) bool {
	return s.AccessToken(ctx) != ""
}

// Profile returns the cached profile without contacting the backend.
func (s *Store) Profile(ctx context.Context) *model.UserProfile {
	raw := s.sm.GetBytes(ctx, KeyUserProfile)
	if len(raw) == 0 {
		return nil
	}
	var p model.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable cached profile", "error", err)
		return nil
	}
	return &p
}

// APIContext returns ctx carrying the stored bearer token for backend calls.
func (s *Store) APIContext(ctx context.Context) context.Context {
	if token := s.AccessToken(ctx); token != "" {
		return apiclient.WithToken(ctx, token)
	}
	return ctx
}

// Bootstrap validates the stored token by fetching the profile. Without a
// token it returns ErrUnauthenticated. Any failure to confirm the token
// clears the session and returns ErrSessionExpired; it is never retried.
func (s *Store) Bootstrap(ctx context.Context) (*model.UserProfile, error) {
	token := s.AccessToken(ctx)
	if token == "" {
		return nil, ErrUnauthenticated
	}

	if tokenExpired(token, s.now()) {
		s.expire(ctx, "token expired")
		return nil, ErrSessionExpired
	}

	p, err := s.api.Profile(apiclient.WithToken(ctx, token))
	if err != nil {
		reason := "profile fetch failed"
		if apiclient.IsUnauthorized(err) {
			reason = "token rejected"
		}
		s.logger.WarnContext(ctx, "session bootstrap failed", "reason", reason, "error", err)
		s.expire(ctx, reason)
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}

	s.putProfile(ctx, p)
	return p, nil
}

// Current returns the cached profile while it is younger than the profile
// max age and bootstraps otherwise.
func (s *Store) Current(ctx context.Context) (*model.UserProfile, error) {
	token := s.AccessToken(ctx)
	if token == "" {
		return nil, ErrUnauthenticated
	}
	if tokenExpired(token, s.now()) {
		s.expire(ctx, "token expired")
		return nil, ErrSessionExpired
	}

	if p := s.Profile(ctx); p != nil {
		fetched := time.Unix(0, s.sm.GetInt64(ctx, KeyProfileFetchedAt))
		if s.profileMaxAge > 0 && s.now().Sub(fetched) < s.profileMaxAge {
			return p, nil
		}
	}
	return s.Bootstrap(ctx)
}

// Login exchanges credentials for a token pair. On success the session token
// is renewed and tokens plus profile are persisted. On rejection it returns
// an *AuthError carrying the backend's messages unchanged.
func (s *Store) Login(ctx context.Context, creds model.Credentials) (*Session, error) {
	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		return nil, newAuthError(err, msgLoginFailed)
	}
	return s.establish(ctx, resp)
}

// Register creates an account and signs it in, with the same failure
// semantics as Login.
func (s *Store) Register(ctx context.Context, reg model.Registration) (*Session, error) {
	resp, err := s.api.Register(ctx, reg)
	if err != nil {
		return nil, newAuthError(err, msgSignupFailed)
	}
	return s.establish(ctx, resp)
}

func (s *Store) establish(ctx context.Context, resp *model.AuthResponse) (*Session, error) {
	if resp.Tokens.Access == "" {
		return nil, &AuthError{
			Fields: map[string][]string{apiclient.NonFieldKey: {msgLoginFailed}},
			Err:    fmt.Errorf("backend returned no access token"),
		}
	}
	if err := s.sm.RenewToken(ctx); err != nil {
		return nil, fmt.Errorf("renewing session token: %w", err)
	}

	s.sm.Put(ctx, KeyAccessToken, resp.Tokens.Access)
	s.sm.Put(ctx, KeyRefreshToken, resp.Tokens.Refresh)
	profile := resp.User
	s.putProfile(ctx, &profile)

	return &Session{
		AccessToken:  resp.Tokens.Access,
		RefreshToken: resp.Tokens.Refresh,
		Profile:      &profile,
	}, nil
}

// UpdateProfile saves the editable profile fields and replaces the cached
// profile with the backend's answer.
func (s *Store) UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (*model.UserProfile, error) {
	if !s.Authenticated(ctx) {
		return nil, ErrUnauthenticated
	}
	p, err := s.api.UpdateProfile(s.APIContext(ctx), upd)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			s.expire(ctx, "token rejected")
			return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		return nil, err
	}
	s.putProfile(ctx, p)
	return p, nil
}

// Logout destroys all persisted state and closes every watch on the session.
// It makes no network call and is idempotent.
func (s *Store) Logout(ctx context.Context) error {
	token := s.sm.Token(ctx)
	err := s.sm.Destroy(ctx)
	s.watchers.closeAll(token)
	if err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// Expire is the forced logout performed when the backend rejects the token
// of an otherwise valid session.
func (s *Store) Expire(ctx context.Context) {
	s.expire(ctx, "token rejected")
}

func (s *Store) expire(ctx context.Context, reason string) {
	s.logger.InfoContext(ctx, "session cleared", "reason", reason)
	if err := s.Logout(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear session", "error", err)
	}
}

// Watch returns a channel that is closed when the session identified by
// token ends through logout or expiry. cancel releases the watch.
func (s *Store) Watch(token string) (<-chan struct{}, func()) {
	return s.watchers.add(token)
}

// Token returns the opaque scs token of the current session, or "".
func (s *Store) Token(ctx context.Context) string {
	return s.sm.Token(ctx)
}

func (s *Store) putProfile(ctx context.Context, p *model.UserProfile) {
	raw, err := json.Marshal(p)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode profile", "error", err)
		return
	}
	s.sm.Put(ctx, KeyUserProfile, raw)
	s.sm.Put(ctx, KeyProfileFetchedAt, s.now().UnixNano())
}
