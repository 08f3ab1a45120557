// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// minJWTSecretLength is the minimum accepted HS256 secret length.
const minJWTSecretLength = 32

// minAdminPasswordLength applies to the bootstrap admin account.
const minAdminPasswordLength = 8

// Validate checks the merged configuration for invalid or unsafe values.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateLeague(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateUploads(); err != nil {
		return err
	}
	if err := c.validateBackup(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case AuthModeJWT:
		if c.Security.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_MODE is jwt")
		}
		if len(c.Security.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters for security", minJWTSecretLength)
		}
		if c.Security.SessionTimeout <= 0 {
			return fmt.Errorf("SESSION_TIMEOUT must be positive")
		}
	case AuthModeNone:
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE=none is not allowed in production")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be one of jwt, none; got %q", c.Security.AuthMode)
	}

	if c.Security.AdminUsername != "" && len(c.Security.AdminPassword) < minAdminPasswordLength {
		return fmt.Errorf("ADMIN_PASSWORD must be at least %d characters when ADMIN_USERNAME is set", minAdminPasswordLength)
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
		if c.Security.LoginRateLimitReqs <= 0 {
			return fmt.Errorf("LOGIN_RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.LoginRateLimitReqs)
		}
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize <= 0 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be positive, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize <= 0 {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be positive, got %d", c.API.MaxPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE (%d) must be >= API_DEFAULT_PAGE_SIZE (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	return nil
}

func (c *Config) validateLeague() error {
	l := c.League
	if l.WinPoints < 0 || l.OTLPoints < 0 || l.LossPoints < 0 {
		return fmt.Errorf("league points must not be negative (win=%d otl=%d loss=%d)",
			l.WinPoints, l.OTLPoints, l.LossPoints)
	}
	if l.LossPoints > l.OTLPoints {
		return fmt.Errorf("POINTS_LOSS (%d) must not exceed POINTS_OTL (%d)", l.LossPoints, l.OTLPoints)
	}
	if l.DefaultSeriesLength <= 0 || l.DefaultSeriesLength%2 == 0 {
		return fmt.Errorf("DEFAULT_SERIES_LENGTH must be a positive odd number, got %d", l.DefaultSeriesLength)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if !c.Database.InMemory && strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DB_PATH is required unless DB_IN_MEMORY is true")
	}
	return nil
}

func (c *Config) validateUploads() error {
	if strings.TrimSpace(c.Uploads.Dir) == "" {
		return fmt.Errorf("UPLOADS_DIR is required")
	}
	if c.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("UPLOADS_MAX_BYTES must be positive, got %d", c.Uploads.MaxBytes)
	}
	if c.Uploads.OrphanGrace < 0 {
		return fmt.Errorf("UPLOADS_ORPHAN_GRACE must not be negative")
	}
	return nil
}

func (c *Config) validateBackup() error {
	if !c.Backup.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Backup.Dir) == "" {
		return fmt.Errorf("BACKUP_DIR is required when BACKUP_ENABLED is true")
	}
	if _, err := cron.ParseStandard(c.Backup.Schedule); err != nil {
		return fmt.Errorf("BACKUP_SCHEDULE %q is not a valid cron expression: %w", c.Backup.Schedule, err)
	}
	if c.Backup.Retain < 1 {
		return fmt.Errorf("BACKUP_RETAIN must be at least 1, got %d", c.Backup.Retain)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled", "":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
