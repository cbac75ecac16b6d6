// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olegiv/connect-web/internal/apiclient"
	"github.com/olegiv/connect-web/internal/avatar"
	"github.com/olegiv/connect-web/internal/cache"
	"github.com/olegiv/connect-web/internal/config"
	"github.com/olegiv/connect-web/internal/content"
	"github.com/olegiv/connect-web/internal/geoip"
	"github.com/olegiv/connect-web/internal/handler"
	"github.com/olegiv/connect-web/internal/logging"
	"github.com/olegiv/connect-web/internal/middleware"
	"github.com/olegiv/connect-web/internal/render"
	"github.com/olegiv/connect-web/internal/scheduler"
	"github.com/olegiv/connect-web/internal/session"
	"github.com/olegiv/connect-web/internal/store"
	"github.com/olegiv/connect-web/internal/syncbus"
	"github.com/olegiv/connect-web/internal/version"
	"github.com/olegiv/connect-web/web"
)

// throttleIdle is how long a login limiter may sit unused before it is
// dropped.
const throttleIdle = 5 * time.Minute

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Issa Connect web front end\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONNECT_SESSION_SECRET  Session and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONNECT_API_URL         Backend base URL (default depends on CONNECT_ENV)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONNECT_DB_PATH         SQLite session database (default: ./data/connect.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONNECT_SERVER_PORT     Server port (default: 3000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONNECT_ENV             development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONNECT_REDIS_URL       Redis URL for the shared cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONNECT_DEMO_MODE       Refuse all writes (default: false)\n")
	}
	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		v := version.Get()
		_, _ = fmt.Printf("connect %s (commit: %s, built: %s)\n", v.Version, v.GitCommit, v.BuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)
	ver := version.Get()
	slog.Info("starting connect", "version", ver.String(), "env", cfg.Env, "backend", cfg.BackendURL())

	slog.Info("initializing session database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()
	applied, err := store.Migrate(context.Background(), db)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if applied > 0 {
		slog.Info("applied migrations", "count", applied)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	apiclient.RegisterMetrics(reg)
	metrics := middleware.NewMetrics(reg)

	api := apiclient.New(cfg.BackendURL(), apiclient.WithTimeout(cfg.APITimeoutDuration()))

	sm := session.New(db, cfg.IsDevelopment())
	sessions := session.NewStore(sm, api, logger)
	sessions.SetProfileMaxAge(cfg.ProfileMaxAgeDuration())

	cacheCfg := cache.DefaultConfig()
	if cfg.UseRedisCache() {
		cacheCfg.RedisURL = cfg.RedisURL
	}
	cacheCfg.Prefix = cfg.CachePrefix
	cacheCfg.MaxSize = cfg.CacheMaxSize
	if ttl := cfg.CacheTTLDuration(); ttl > 0 {
		cacheCfg.DefaultTTL = ttl
	}
	c, cacheType := cache.New(cacheCfg, logger)
	defer func() { _ = c.Close() }()

	bus := syncbus.New()
	svc := content.New(api, bus, c, content.Options{
		MockFallback: cfg.MockFallback,
		DemoMode:     cfg.DemoMode,
		TTL:          cfg.CacheTTLDuration(),
	}, logger)
	if cfg.DemoMode {
		slog.Warn("demo mode enabled, writes are refused")
	}
	if err := svc.DropCachedLists(context.Background()); err != nil {
		slog.Warn("could not drop cached feed lists", "error", err)
	}

	avatars := avatar.NewLoader(c, avatar.LoaderConfig{
		Timeout:      cfg.AvatarTimeoutDuration(),
		AllowPrivate: cfg.AvatarAllowPrivate,
	}, logger)

	renderer, err := render.New(render.Config{
		TemplatesFS:    web.TemplatesFS(),
		SessionManager: sm,
	})
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	throttle := middleware.NewLoginThrottle(cfg.LoginRate, cfg.LoginBurst)

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip disabled", "error", err)
	}
	defer func() { _ = geo.Close() }()

	sched := scheduler.New(logger)
	jobs := []struct {
		name, spec string
		fn         scheduler.JobFunc
	}{
		{"login-throttle-prune", "@every 5m", func(context.Context) error {
			if n := throttle.Prune(throttleIdle); n > 0 {
				slog.Debug("pruned login limiters", "count", n)
			}
			return nil
		}},
		{"session-gauge", "@every 1m", func(ctx context.Context) error {
			n, err := store.CountSessions(ctx, db)
			if err != nil {
				return err
			}
			metrics.SetStoredSessions(n)
			return nil
		}},
		{"geoip-reload", "@daily", func(context.Context) error {
			return geo.Reload()
		}},
	}
	for _, j := range jobs {
		if err := sched.Add(j.name, j.spec, j.fn); err != nil {
			return err
		}
	}
	sched.Start()
	defer sched.Stop()
	if err := sched.Trigger("session-gauge"); err != nil {
		slog.Warn("initial session count failed", "error", err)
	}

	r := handler.NewRouter(handler.Deps{
		Store:     sessions,
		Content:   svc,
		Renderer:  renderer,
		Avatars:   avatars,
		Bus:       bus,
		Metrics:   metrics,
		Throttle:  throttle,
		GeoIP:     geo,
		Scheduler: sched,
		CSRF:      middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr()),
		Security:  middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment()),
		Static:    web.Static,
		DB:        db,
		CacheType: cacheType,
		Cache:     c,
		Heartbeat: handler.DefaultHeartbeat,
		Logger:    logger,
		Version:   ver.String(),
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	// WriteTimeout stays zero: live views hold their response open. Closing
	// the bus on shutdown ends them.
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	srv.RegisterOnShutdown(bus.Close)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "cache", cacheType)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
