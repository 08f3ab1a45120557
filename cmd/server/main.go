// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/rinkside/internal/api"
	"github.com/tomtom215/rinkside/internal/auth"
	"github.com/tomtom215/rinkside/internal/authz"
	"github.com/tomtom215/rinkside/internal/backup"
	"github.com/tomtom215/rinkside/internal/cache"
	"github.com/tomtom215/rinkside/internal/config"
	"github.com/tomtom215/rinkside/internal/events"
	"github.com/tomtom215/rinkside/internal/league"
	"github.com/tomtom215/rinkside/internal/logging"
	"github.com/tomtom215/rinkside/internal/models"
	"github.com/tomtom215/rinkside/internal/store"
	"github.com/tomtom215/rinkside/internal/supervisor"
	"github.com/tomtom215/rinkside/internal/supervisor/services"
	"github.com/tomtom215/rinkside/internal/uploads"
	ws "github.com/tomtom215/rinkside/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Rinkside failed")
	}
}

//nolint:gocyclo // sequential startup
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
		Service:   "rinkside",
		Version:   version,
	})
	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("auth_mode", cfg.Security.AuthMode).
		Bool("in_memory", cfg.Database.InMemory).
		Msg("Starting Rinkside")

	db, err := store.Open(store.Config{
		Path:       cfg.Database.Path,
		InMemory:   cfg.Database.InMemory,
		SyncWrites: cfg.Database.SyncWrites,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()
	docs := store.New(db)

	views := cache.New(cfg.Cache.TTL)
	defer views.Stop()

	hub := ws.NewHub()

	bus := events.NewBus(events.DefaultBusConfig(), nil)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()
	router := events.NewRouter(nil, bus.Subscriber(), bus.Publisher(), nil)
	events.RegisterCacheInvalidation(router, views, league.SeasonCacheKey)
	events.RegisterBroadcast(router, hub)
	events.RegisterPoisonLog(router)

	svc := league.NewService(docs, leagueConfig(cfg), bus, views)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if created, err := svc.EnsureAdmin(ctx, cfg.Security.AdminUsername, cfg.Security.AdminPassword); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	} else if !created && cfg.Security.AdminUsername != "" {
		logging.Debug().Str("username", cfg.Security.AdminUsername).Msg("Admin user already exists")
	}

	var jwtManager *auth.JWTManager
	if cfg.Security.AuthMode == config.AuthModeJWT {
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			return fmt.Errorf("jwt manager: %w", err)
		}
		logging.Info().Dur("session_timeout", jwtManager.Timeout()).Msg("JWT authentication enabled")
	} else {
		logging.Warn().Msg("Authentication is DISABLED (auth_mode=none); every request acts as admin")
	}
	authn := auth.NewMiddleware(jwtManager, cfg.Security.AuthMode)

	enforcer, err := authz.NewEnforcer(ctx, authz.ConfigFrom(&cfg.Security.Casbin))
	if err != nil {
		return fmt.Errorf("authorization enforcer: %w", err)
	}
	defer enforcer.Close()

	files, err := uploads.New(uploads.ConfigFrom(&cfg.Uploads))
	if err != nil {
		return fmt.Errorf("uploads: %w", err)
	}

	var backups *backup.Manager
	var scheduler *backup.Scheduler
	if cfg.Backup.Enabled {
		backups, err = backup.NewManager(&cfg.Backup, db)
		if err != nil {
			return fmt.Errorf("backup manager: %w", err)
		}
		scheduler, err = backup.NewScheduler(backups, cfg.Backup.Schedule)
		if err != nil {
			return fmt.Errorf("backup scheduler: %w", err)
		}
		logging.Info().Str("dir", backups.Dir()).Int("retain", backups.Retain()).Msg("Backups enabled")
	}

	deps := api.Deps{
		Config:  cfg,
		League:  svc,
		DB:      db,
		Uploads: files,
		Cache:   views,
		Hub:     hub,
		JWT:     jwtManager,
		Version: version,
	}
	// A nil *backup.Manager in the interface field would not compare nil.
	if backups != nil {
		deps.Backups = backups
	}
	handler := api.NewHandler(deps)
	chiRouter := api.NewRouter(handler,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)),
		authn, authz.NewMiddleware(enforcer))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           chiRouter.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: shutdownTimeout,
	})
	tree.AddDataService(services.NewStoreGCService(db, cfg.Database.GCInterval))
	if scheduler != nil {
		tree.AddDataService(scheduler)
	}
	tree.AddMessagingService(hub)
	tree.AddMessagingService(router)
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, shutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, s := range unstopped {
		logging.Warn().Str("service", s.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Rinkside stopped")
	return nil
}

func leagueConfig(cfg *config.Config) league.Config {
	return league.Config{
		Points: models.PointsRule{
			Win:  cfg.League.WinPoints,
			OTL:  cfg.League.OTLPoints,
			Loss: cfg.League.LossPoints,
		},
		DefaultSeriesLength: cfg.League.DefaultSeriesLength,
		RegistrationEnabled: cfg.Security.RegistrationEnabled,
		UploadsURLPrefix:    cfg.Uploads.URLPrefix,
	}
}
