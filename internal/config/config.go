// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/caarlos0/env/v11"
)

// Default backend base URLs by environment.
const (
	DevelopmentAPIURL = "http://127.0.0.1:8080"
	ProductionAPIURL  = "https://issaconnect-production.up.railway.app"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIURL        string `env:"CONNECT_API_URL"`
	APITimeout    int    `env:"CONNECT_API_TIMEOUT" envDefault:"15"` // seconds
	DBPath        string `env:"CONNECT_DB_PATH" envDefault:"./data/connect.db"`
	SessionSecret string `env:"CONNECT_SESSION_SECRET,required"`
	ServerHost    string `env:"CONNECT_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"CONNECT_SERVER_PORT" envDefault:"3000"`
	Env           string `env:"CONNECT_ENV" envDefault:"development"`
	LogLevel      string `env:"CONNECT_LOG_LEVEL" envDefault:"info"`

	MockFallback bool `env:"CONNECT_MOCK_FALLBACK" envDefault:"true"`
	DemoMode     bool `env:"CONNECT_DEMO_MODE" envDefault:"false"`

	// Cache configuration
	RedisURL     string `env:"CONNECT_REDIS_URL"`
	CachePrefix  string `env:"CONNECT_CACHE_PREFIX" envDefault:"connect:"`
	CacheTTL     int    `env:"CONNECT_CACHE_TTL" envDefault:"30"` // seconds, 0 disables feed caching
	CacheMaxSize int    `env:"CONNECT_CACHE_MAX_SIZE" envDefault:"10000"`

	// Login throttling per client IP
	LoginRate  float64 `env:"CONNECT_LOGIN_RATE" envDefault:"0.5"`
	LoginBurst int     `env:"CONNECT_LOGIN_BURST" envDefault:"5"`

	// Avatar fetching
	AvatarTimeout      int  `env:"CONNECT_AVATAR_TIMEOUT" envDefault:"5"` // seconds
	AvatarAllowPrivate bool `env:"CONNECT_AVATAR_ALLOW_PRIVATE" envDefault:"false"`

	// How long a session's cached profile is trusted before it is refetched
	ProfileMaxAge int `env:"CONNECT_PROFILE_MAX_AGE" envDefault:"300"` // seconds, 0 refetches on every request

	// GeoLite2-Country database for sign-in logs (optional)
	GeoIPDBPath string `env:"CONNECT_GEOIP_DB"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// BackendURL returns the configured backend base URL, or the default for
// the environment, without a trailing slash.
func (c Config) BackendURL() string {
	u := c.APIURL
	if u == "" {
		if c.IsDevelopment() {
			u = DevelopmentAPIURL
		} else {
			u = ProductionAPIURL
		}
	}
	return strings.TrimRight(u, "/")
}

// APITimeoutDuration returns the per-call backend timeout.
func (c Config) APITimeoutDuration() time.Duration {
	return time.Duration(c.APITimeout) * time.Second
}

// CacheTTLDuration returns the feed cache TTL.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// AvatarTimeoutDuration returns the avatar fetch timeout.
func (c Config) AvatarTimeoutDuration() time.Duration {
	return time.Duration(c.AvatarTimeout) * time.Second
}

// ProfileMaxAgeDuration returns how long a cached profile is trusted.
func (c Config) ProfileMaxAgeDuration() time.Duration {
	return time.Duration(c.ProfileMaxAge) * time.Second
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

const secretHint = "generate one with: openssl rand -base64 32"

// Load parses environment variables and validates the result. Every
// validation problem is reported, not just the first.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if secretClasses(cfg.SessionSecret) < 3 {
		slog.Warn("CONNECT_SESSION_SECRET has low character diversity; " + secretHint)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	switch {
	case len(c.SessionSecret) < MinSessionSecretLength:
		errs = append(errs, fmt.Errorf("CONNECT_SESSION_SECRET must be at least %d bytes long, got %d bytes; %s",
			MinSessionSecretLength, len(c.SessionSecret), secretHint))
	case slices.Contains(knownWeakSecrets, c.SessionSecret):
		errs = append(errs, errors.New("CONNECT_SESSION_SECRET is a known default value and must not be used; "+secretHint))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, fmt.Errorf("CONNECT_API_TIMEOUT must be positive, got %d", c.APITimeout))
	}
	if c.ProfileMaxAge < 0 {
		errs = append(errs, fmt.Errorf("CONNECT_PROFILE_MAX_AGE must not be negative, got %d", c.ProfileMaxAge))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("CONNECT_CACHE_TTL must not be negative, got %d", c.CacheTTL))
	}
	if c.LoginRate <= 0 || c.LoginBurst < 1 {
		errs = append(errs, fmt.Errorf("CONNECT_LOGIN_RATE and CONNECT_LOGIN_BURST must be positive, got %v/%d",
			c.LoginRate, c.LoginBurst))
	}
	return errors.Join(errs...)
}

// secretClasses counts the character classes (lower, upper, digit, other)
// present in s.
func secretClasses(s string) int {
	var lower, upper, digit, other bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			other = true
		}
	}
	n := 0
	for _, ok := range []bool{lower, upper, digit, other} {
		if ok {
			n++
		}
	}
	return n
}
