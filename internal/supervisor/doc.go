// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Package supervisor runs Rinkside's long-lived services under a suture v4 tree.

# Layout

	rinkside
	├── data-layer
	│   ├── store-gc           badger value-log GC
	│   └── backup-scheduler   cron-driven backups (if backup.enabled)
	├── messaging-layer
	│   ├── websocket-hub      live update fan-out
	│   └── event-router       watermill handlers: cache invalidation, broadcast
	└── api-layer
	    └── http-server        chi router

Crashed services restart with backoff. Each layer counts failures on its own,
so a broken event handler never takes the HTTP server down with it.

# Usage

	tree := supervisor.NewSupervisorTree(slog.New(logging.NewSlogHandler()), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewStoreGCService(db, cfg.Database.GCInterval))
	tree.AddMessagingService(hub)
	tree.AddMessagingService(router)
	tree.AddAPIService(services.NewHTTPServerService(srv, srv.Addr, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

After Serve returns, UnstoppedServiceReport lists anything that missed the
shutdown timeout.

# Logging

Supervisor events (service start, panic, restart, backoff) go through
sutureslog to an slog.Logger. Pass logging.NewSlogHandler to land them in the
same zerolog stream as everything else.
*/
package supervisor
