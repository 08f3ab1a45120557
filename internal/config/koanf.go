// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/rinkside/config.yaml",
	"/etc/rinkside/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// sliceConfigPaths are config paths whose env values are comma-separated lists.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
			PublicURL:   "",
		},
		Database: DatabaseConfig{
			Path:       "/data/rinkside",
			InMemory:   false,
			SyncWrites: true,
			GCInterval: 10 * time.Minute,
		},
		Uploads: UploadsConfig{
			Dir:         "/data/uploads",
			MaxBytes:    5 << 20, // 5MB
			URLPrefix:   "/api/v1/uploads",
			OrphanGrace: 24 * time.Hour,
		},
		Security: SecurityConfig{
			AuthMode:            AuthModeJWT,
			JWTSecret:           "",
			SessionTimeout:      24 * time.Hour,
			AdminUsername:       "",
			AdminPassword:       "",
			RegistrationEnabled: false,
			RateLimitReqs:       100,
			RateLimitWindow:     1 * time.Minute,
			RateLimitDisabled:   false,
			LoginRateLimitReqs:  10,
			CORSOrigins:         []string{"*"},
			Casbin: CasbinConfig{
				ModelPath:  "",
				PolicyPath: "",
				CacheTTL:   5 * time.Minute,
			},
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		League: LeagueConfig{
			WinPoints:           2,
			OTLPoints:           1,
			LossPoints:          0,
			DefaultSeriesLength: 7,
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		Backup: BackupConfig{
			Enabled:  false,
			Dir:      "/data/backups",
			Schedule: "0 4 * * *",
			Retain:   7,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//  1. Defaults from struct
//  2. Config file (optional)
//  3. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// JWT_SECRET -> security.jwt_secret, POINTS_WIN -> league.win_points
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file that exists, or "" when none does.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// processSliceFields splits comma-separated strings from env vars into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (defaults or YAML)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":      "server.port",
	"http_host":      "server.host",
	"server_timeout": "server.timeout",
	"environment":    "server.environment",
	"public_url":     "server.public_url",

	// Database
	"db_path":        "database.path",
	"db_in_memory":   "database.in_memory",
	"db_sync_writes": "database.sync_writes",
	"db_gc_interval": "database.gc_interval",

	// Uploads
	"uploads_dir":          "uploads.dir",
	"uploads_max_bytes":    "uploads.max_bytes",
	"uploads_url_prefix":   "uploads.url_prefix",
	"uploads_orphan_grace": "uploads.orphan_grace",

	// Security
	"auth_mode":                 "security.auth_mode",
	"jwt_secret":                "security.jwt_secret",
	"session_timeout":           "security.session_timeout",
	"admin_username":            "security.admin_username",
	"admin_password":            "security.admin_password",
	"registration_enabled":      "security.registration_enabled",
	"rate_limit_requests":       "security.rate_limit_reqs",
	"rate_limit_window":         "security.rate_limit_window",
	"disable_rate_limit":        "security.rate_limit_disabled",
	"login_rate_limit_requests": "security.login_rate_limit_reqs",
	"cors_origins":              "security.cors_origins",
	"casbin_model_path":         "security.casbin.model_path",
	"casbin_policy_path":        "security.casbin.policy_path",
	"casbin_cache_ttl":          "security.casbin.cache_ttl",

	// API
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	// League
	"points_win":            "league.win_points",
	"points_otl":            "league.otl_points",
	"points_loss":           "league.loss_points",
	"default_series_length": "league.default_series_length",

	// Cache
	"cache_ttl": "cache.ttl",

	// Backup
	"backup_enabled":  "backup.enabled",
	"backup_dir":      "backup.dir",
	"backup_schedule": "backup.schedule",
	"backup_retain":   "backup.retain",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped keys return "" and are skipped.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
