// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"

	"filippo.io/csrf/gorilla"
)

// CSRFConfig configures cross-origin protection for the session routes.
// Requests are judged by their Sec-Fetch-Site and Origin headers, so forms
// carry no hidden token.
type CSRFConfig struct {
	// Key is accepted by the gorilla-compatible constructor but unused by
	// the header-based check.
	Key []byte
	// TrustedOrigins may post cross-origin, e.g. "localhost:8080".
	TrustedOrigins []string
	// OnReject is called once per refused request. Optional.
	OnReject func()
}

// DefaultCSRFConfig trusts the listen address in development, where the
// browser may reach the server under a different host name.
func DefaultCSRFConfig(key []byte, isDev bool, addr string) CSRFConfig {
	cfg := CSRFConfig{Key: key}
	if isDev && addr != "" {
		cfg.TrustedOrigins = append(cfg.TrustedOrigins, addr)
	}
	return cfg
}

// CSRF refuses cross-origin state-changing requests with 403.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	refuse := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cfg.OnReject != nil {
			cfg.OnReject()
		}
		var reason string
		if err := csrf.FailureReason(r); err != nil {
			reason = err.Error()
		}
		slog.WarnContext(r.Context(), "cross-origin request refused",
			"reason", reason,
			"method", r.Method,
			"path", r.URL.Path,
			"origin", r.Header.Get("Origin"),
			"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
		)
		http.Error(w, "This form was submitted from another site and was not accepted.", http.StatusForbidden)
	})

	opts := []csrf.Option{csrf.ErrorHandler(refuse)}
	if len(cfg.TrustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(cfg.TrustedOrigins))
	}
	return csrf.Protect(cfg.Key, opts...)
}
