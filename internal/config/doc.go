// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Package config provides centralized configuration management for Rinkside.

Configuration is layered with koanf v2. Later layers override earlier ones:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file (CONFIG_PATH, config.yaml, config.yml, /etc/rinkside/config.yaml)
 3. Environment variables

Only environment variables listed in the explicit mapping table are read, so
unrelated variables in the process environment never leak into the config.

# Configuration Structure

  - ServerConfig: HTTP listener, timeouts, environment, public URL
  - DatabaseConfig: BadgerDB document store location and GC cadence
  - UploadsConfig: image upload directory, size limit, orphan grace period
  - SecurityConfig: JWT, bootstrap admin, rate limiting, CORS, Casbin
  - APIConfig: pagination bounds
  - LeagueConfig: points rules and default playoff series length
  - CacheConfig: derived-view cache TTL
  - BackupConfig: scheduled BadgerDB backups
  - LoggingConfig: zerolog level, format, caller

# Environment Variables

Commonly used variables:

  - HTTP_PORT, HTTP_HOST, SERVER_TIMEOUT, ENVIRONMENT, PUBLIC_URL
  - DB_PATH, DB_IN_MEMORY, DB_SYNC_WRITES, DB_GC_INTERVAL
  - UPLOADS_DIR, UPLOADS_MAX_BYTES, UPLOADS_ORPHAN_GRACE
  - AUTH_MODE, JWT_SECRET, SESSION_TIMEOUT, ADMIN_USERNAME, ADMIN_PASSWORD
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT, CORS_ORIGINS
  - POINTS_WIN, POINTS_OTL, POINTS_LOSS, DEFAULT_SERIES_LENGTH
  - BACKUP_ENABLED, BACKUP_DIR, BACKUP_SCHEDULE, BACKUP_RETAIN
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

# Validation

Load validates the merged configuration and fails fast with a descriptive
error. Production environments refuse AUTH_MODE=none.
*/
package config
