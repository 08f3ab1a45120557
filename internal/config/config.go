// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package config

import (
	"time"
)

// Auth modes
const (
	AuthModeJWT  = "jwt"
	AuthModeNone = "none"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Uploads  UploadsConfig  `koanf:"uploads"`
	Security SecurityConfig `koanf:"security"`
	API      APIConfig      `koanf:"api"`
	League   LeagueConfig   `koanf:"league"`
	Cache    CacheConfig    `koanf:"cache"`
	Backup   BackupConfig   `koanf:"backup"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production"
	PublicURL   string        `koanf:"public_url"`  // Used to build absolute upload URLs (optional)
}

// DatabaseConfig holds BadgerDB document store settings
type DatabaseConfig struct {
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	SyncWrites bool          `koanf:"sync_writes"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

// UploadsConfig controls where club logos and article images are stored.
type UploadsConfig struct {
	Dir         string        `koanf:"dir"`
	MaxBytes    int64         `koanf:"max_bytes"`
	URLPrefix   string        `koanf:"url_prefix"`
	OrphanGrace time.Duration `koanf:"orphan_grace"`
}

// SecurityConfig holds authentication and authorization settings
type SecurityConfig struct {
	AuthMode            string        `koanf:"auth_mode"`
	JWTSecret           string        `koanf:"jwt_secret"`
	SessionTimeout      time.Duration `koanf:"session_timeout"`
	AdminUsername       string        `koanf:"admin_username"`
	AdminPassword       string        `koanf:"admin_password"`
	RegistrationEnabled bool          `koanf:"registration_enabled"`
	RateLimitReqs       int           `koanf:"rate_limit_reqs"`
	RateLimitWindow     time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled   bool          `koanf:"rate_limit_disabled"`
	LoginRateLimitReqs  int           `koanf:"login_rate_limit_reqs"`
	CORSOrigins         []string      `koanf:"cors_origins"`
	Casbin              CasbinConfig  `koanf:"casbin"`
}

// CasbinConfig holds Casbin RBAC settings.
// Empty paths use the embedded model and policy.
type CasbinConfig struct {
	ModelPath  string        `koanf:"model_path"`
	PolicyPath string        `koanf:"policy_path"`
	CacheTTL   time.Duration `koanf:"cache_ttl"`
}

// APIConfig holds API pagination settings
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// LeagueConfig holds league-wide rule defaults. Seasons may override points.
type LeagueConfig struct {
	WinPoints           int `koanf:"win_points"`
	OTLPoints           int `koanf:"otl_points"`
	LossPoints          int `koanf:"loss_points"`
	DefaultSeriesLength int `koanf:"default_series_length"`
}

// CacheConfig holds cache settings for derived views
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// BackupConfig holds scheduled backup settings
type BackupConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Dir      string `koanf:"dir"`
	Schedule string `koanf:"schedule"` // Standard 5-field cron expression
	Retain   int    `koanf:"retain"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load is the primary entry point for loading configuration.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs in a production environment
func (c *Config) IsProduction() bool {
	switch c.Server.Environment {
	case "production", "prod":
		return true
	}
	return false
}

// IsDevelopment reports whether the server runs in a development environment
func (c *Config) IsDevelopment() bool {
	switch c.Server.Environment {
	case "", "development", "dev":
		return true
	}
	return false
}
