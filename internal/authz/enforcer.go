// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package authz

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/tomtom215/rinkside/internal/config"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Resources guarded by the policy.
const (
	ResourceClubs    = "clubs"
	ResourcePlayers  = "players"
	ResourceManagers = "managers"
	ResourceSeasons  = "seasons"
	ResourceGames    = "games"
	ResourcePlayoffs = "playoffs"
	ResourceRankings = "rankings"
	ResourceUsers    = "users"
	ResourceArticles = "articles"
	ResourceUploads  = "uploads"
	ResourceAdmin    = "admin"
)

// Actions.
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"
)

// EnforcerConfig holds configuration for the Casbin enforcer.
type EnforcerConfig struct {
	// ModelPath is the path to the Casbin model file.
	// If empty, uses embedded model.
	ModelPath string

	// PolicyPath is the path to the Casbin policy file.
	// If empty, uses embedded policy.
	PolicyPath string

	// CacheEnabled enables enforcement decision caching.
	CacheEnabled bool

	// CacheTTL is how long to cache decisions.
	CacheTTL time.Duration
}

// DefaultEnforcerConfig returns default configuration.
func DefaultEnforcerConfig() *EnforcerConfig {
	return &EnforcerConfig{
		CacheEnabled: true,
		CacheTTL:     5 * time.Minute,
	}
}

// ConfigFrom builds an EnforcerConfig from the application settings.
// A zero CacheTTL disables caching.
func ConfigFrom(cfg *config.CasbinConfig) *EnforcerConfig {
	return &EnforcerConfig{
		ModelPath:    cfg.ModelPath,
		PolicyPath:   cfg.PolicyPath,
		CacheEnabled: cfg.CacheTTL > 0,
		CacheTTL:     cfg.CacheTTL,
	}
}

// Enforcer wraps the Casbin enforcer with a decision cache.
type Enforcer struct {
	config   *EnforcerConfig
	enforcer *casbin.SyncedEnforcer
	cache    *enforcementCache
}

// NewEnforcer creates a new authorization enforcer. Configured model and
// policy paths must exist; empty paths fall back to the embedded files.
func NewEnforcer(_ context.Context, cfg *EnforcerConfig) (*Enforcer, error) {
	if cfg == nil {
		cfg = DefaultEnforcerConfig()
	}

	var m model.Model
	var err error
	if cfg.ModelPath != "" {
		if !fileExists(cfg.ModelPath) {
			return nil, fmt.Errorf("casbin model %s not found", cfg.ModelPath)
		}
		m, err = model.NewModelFromFile(cfg.ModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if cfg.PolicyPath != "" {
		if !fileExists(cfg.PolicyPath) {
			return nil, fmt.Errorf("casbin policy %s not found", cfg.PolicyPath)
		}
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(cfg.PolicyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	e := &Enforcer{
		config:   cfg,
		enforcer: enforcer,
	}
	if cfg.CacheEnabled {
		e.cache = newEnforcementCache(cfg.CacheTTL)
	}
	return e, nil
}

// loadEmbeddedPolicy parses and loads the embedded policy CSV.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		ptype, rule := parts[0], parts[1:]
		switch {
		case ptype == "p" && len(rule) == 3:
			if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", rule, err)
			}
		case ptype == "g" && len(rule) == 2:
			if _, err := enforcer.AddGroupingPolicy(rule[0], rule[1]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", rule, err)
			}
		default:
			return fmt.Errorf("malformed policy line %q", line)
		}
	}
	return nil
}

// Enforce checks if role may perform action on resource. The second return
// value reports whether the decision came from the cache.
func (e *Enforcer) Enforce(role, resource, action string) (allowed, cached bool, err error) {
	if role == "" {
		return false, false, nil
	}
	if e.cache != nil {
		if allowed, ok := e.cache.get(role, resource, action); ok {
			return allowed, true, nil
		}
	}

	allowed, err = e.enforcer.Enforce(role, resource, action)
	if err != nil {
		return false, false, fmt.Errorf("enforcement failed: %w", err)
	}

	if e.cache != nil {
		e.cache.set(role, resource, action, allowed)
	}
	return allowed, false, nil
}

// Allowed is Enforce without the cache flag. Errors deny.
func (e *Enforcer) Allowed(role, resource, action string) bool {
	allowed, _, err := e.Enforce(role, resource, action)
	return err == nil && allowed
}

// AddPolicy adds a policy rule and clears cached decisions.
func (e *Enforcer) AddPolicy(role, resource, action string) (bool, error) {
	added, err := e.enforcer.AddPolicy(role, resource, action)
	if err != nil {
		return false, fmt.Errorf("failed to add policy: %w", err)
	}
	e.invalidate("policy_update")
	return added, nil
}

// RemovePolicy removes a policy rule and clears cached decisions.
func (e *Enforcer) RemovePolicy(role, resource, action string) (bool, error) {
	removed, err := e.enforcer.RemovePolicy(role, resource, action)
	if err != nil {
		return false, fmt.Errorf("failed to remove policy: %w", err)
	}
	e.invalidate("policy_update")
	return removed, nil
}

// ImpliedRoles returns the roles role inherits from, including indirect ones.
func (e *Enforcer) ImpliedRoles(role string) ([]string, error) {
	return e.enforcer.GetImplicitRolesForUser(role)
}

// LoadPolicy reloads the policy from the file adapter. With the embedded
// policy there is nothing to reload.
func (e *Enforcer) LoadPolicy() error {
	if e.config.PolicyPath == "" {
		return nil
	}
	if err := e.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to reload policy: %w", err)
	}
	e.invalidate("policy_reload")
	return nil
}

// Close stops the cache cleanup goroutine.
func (e *Enforcer) Close() {
	if e.cache != nil {
		e.cache.stop()
	}
}

func (e *Enforcer) invalidate(reason string) {
	if e.cache == nil {
		return
	}
	e.cache.clear()
	AuthzCacheInvalidationsTotal.WithLabelValues(reason).Inc()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
