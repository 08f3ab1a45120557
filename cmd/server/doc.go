// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Package main is the Rinkside API server.

Rinkside runs an online hockey league: clubs, rosters, seasons, game results,
playoff brackets, standings, stat leaders, power rankings and news. It serves
a JSON REST API under /api/v1 and pushes live updates over a websocket.

# Startup

 1. Configuration: koanf v2 (defaults, then config.yaml, then environment)
 2. Logging: zerolog, JSON or console
 3. Store: BadgerDB document collections
 4. Bootstrap admin from ADMIN_USERNAME / ADMIN_PASSWORD when missing
 5. View cache for standings, stats and leaders
 6. Websocket hub
 7. Event bus (watermill gochannel) and router: cache invalidation, broadcast
 8. League service
 9. Authentication: JWT, or none for local development
 10. Authorization: Casbin RBAC
 11. Backups (if BACKUP_ENABLED)
 12. Chi router
 13. Supervisor tree, then wait for SIGINT or SIGTERM

# Supervision

	rinkside
	├── data-layer       store-gc, backup-scheduler
	├── messaging-layer  websocket-hub, event-router
	└── api-layer        http-server

# Configuration

	HTTP_PORT=8080
	DB_PATH=/data/rinkside        # or DB_IN_MEMORY=true
	UPLOADS_DIR=/data/uploads
	AUTH_MODE=jwt                 # jwt or none
	JWT_SECRET=<32+ chars>
	ADMIN_USERNAME=commissioner
	ADMIN_PASSWORD=<8+ chars>
	REGISTRATION_ENABLED=false
	CORS_ORIGINS=https://league.example
	BACKUP_ENABLED=true
	BACKUP_SCHEDULE="0 4 * * *"
	LOG_LEVEL=info
	LOG_FORMAT=json

CONFIG_PATH points at a YAML file with the same keys nested by section.

# Example

	export JWT_SECRET=$(openssl rand -base64 32)
	export ADMIN_USERNAME=commissioner ADMIN_PASSWORD=change-me-now
	./rinkside

# Shutdown

On SIGINT or SIGTERM the root context is cancelled. The HTTP server drains
in-flight requests for up to 10 seconds, the event router and hub close, and
any service that missed the timeout is logged before the store closes.
*/
package main
