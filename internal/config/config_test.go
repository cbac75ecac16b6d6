// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "test-Secret-key-32-bytes-long!!!"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONNECT_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/connect.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ServerAddr() != "localhost:3000" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development by default")
	}
	if !cfg.MockFallback {
		t.Error("mock fallback should default to on")
	}
	if cfg.DemoMode {
		t.Error("demo mode should default to off")
	}
	if cfg.APITimeoutDuration() != 15*time.Second {
		t.Errorf("APITimeoutDuration() = %v", cfg.APITimeoutDuration())
	}
	if cfg.LoginRate != 0.5 || cfg.LoginBurst != 5 {
		t.Errorf("login throttle = %v/%d", cfg.LoginRate, cfg.LoginBurst)
	}
	if cfg.UseRedisCache() {
		t.Error("redis should be off by default")
	}
	if cfg.ProfileMaxAgeDuration() != 5*time.Minute {
		t.Errorf("ProfileMaxAgeDuration() = %v", cfg.ProfileMaxAgeDuration())
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("CONNECT_SESSION_SECRET", testSecret)
	t.Setenv("CONNECT_API_URL", "https://api.example.com/")
	t.Setenv("CONNECT_SERVER_HOST", "0.0.0.0")
	t.Setenv("CONNECT_SERVER_PORT", "8081")
	t.Setenv("CONNECT_ENV", "production")
	t.Setenv("CONNECT_DEMO_MODE", "true")
	t.Setenv("CONNECT_CACHE_TTL", "0")
	t.Setenv("CONNECT_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.BackendURL() != "https://api.example.com" {
		t.Errorf("BackendURL() = %q", cfg.BackendURL())
	}
	if cfg.ServerAddr() != "0.0.0.0:8081" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("expected production")
	}
	if !cfg.DemoMode {
		t.Error("expected demo mode")
	}
	if cfg.CacheTTLDuration() != 0 {
		t.Errorf("CacheTTLDuration() = %v", cfg.CacheTTLDuration())
	}
	if !cfg.UseRedisCache() {
		t.Error("expected redis")
	}
}

func TestBackendURL_ByEnvironment(t *testing.T) {
	if got := (Config{Env: "development"}).BackendURL(); got != DevelopmentAPIURL {
		t.Errorf("development = %q", got)
	}
	if got := (Config{Env: "production"}).BackendURL(); got != ProductionAPIURL {
		t.Errorf("production = %q", got)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "CONNECT_SESSION_SECRET"},
		{"short secret", map[string]string{"CONNECT_SESSION_SECRET": "short"}, "at least 32 bytes"},
		{"weak secret", map[string]string{"CONNECT_SESSION_SECRET": "change-me-to-32-byte-secret-key!"}, "known default"},
		{"zero timeout", map[string]string{"CONNECT_SESSION_SECRET": testSecret, "CONNECT_API_TIMEOUT": "0"}, "CONNECT_API_TIMEOUT"},
		{"negative ttl", map[string]string{"CONNECT_SESSION_SECRET": testSecret, "CONNECT_CACHE_TTL": "-1"}, "CONNECT_CACHE_TTL"},
		{"bad port", map[string]string{"CONNECT_SESSION_SECRET": testSecret, "CONNECT_SERVER_PORT": "abc"}, "parsing config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONNECT_SESSION_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestSecretClasses(t *testing.T) {
	tests := map[string]int{
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa": 1,
		"abcABC123abcABC123abcABC123abcAB":  3,
		testSecret:                          4,
	}
	for s, want := range tests {
		if got := secretClasses(s); got != want {
			t.Errorf("secretClasses(%q) = %d, want %d", s, got, want)
		}
	}
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	t.Setenv("CONNECT_SESSION_SECRET", "short")
	t.Setenv("CONNECT_API_TIMEOUT", "0")
	t.Setenv("CONNECT_LOGIN_BURST", "0")
	t.Setenv("CONNECT_PROFILE_MAX_AGE", "-1")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"at least 32 bytes", "CONNECT_API_TIMEOUT", "CONNECT_LOGIN_BURST", "CONNECT_PROFILE_MAX_AGE"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not contain %q", err, want)
		}
	}
}
