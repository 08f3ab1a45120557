// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/rinkside/internal/auth"
	"github.com/tomtom215/rinkside/internal/backup"
	"github.com/tomtom215/rinkside/internal/cache"
	"github.com/tomtom215/rinkside/internal/config"
	"github.com/tomtom215/rinkside/internal/league"
	"github.com/tomtom215/rinkside/internal/models"
	"github.com/tomtom215/rinkside/internal/uploads"
	ws "github.com/tomtom215/rinkside/internal/websocket"
)

// Pinger reports store connectivity. *store.DB implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backups creates and lists database backups. *backup.Manager implements it.
type Backups interface {
	Create(ctx context.Context) (*backup.Backup, error)
	List() ([]backup.Backup, error)
}

// Deps are the collaborators of Handler. Backups and Hub may be nil.
type Deps struct {
	Config  *config.Config
	League  *league.Service
	DB      Pinger
	Uploads *uploads.Store
	Backups Backups
	Cache   *cache.Cache
	Hub     *ws.Hub
	JWT     *auth.JWTManager
	Version string
}

// Handler serves the REST API.
type Handler struct {
	cfg       *config.Config
	svc       *league.Service
	db        Pinger
	uploads   *uploads.Store
	backups   Backups
	cache     *cache.Cache
	wsHub     *ws.Hub
	jwt       *auth.JWTManager
	version   string
	startTime time.Time
}

// NewHandler creates a Handler from deps.
func NewHandler(deps Deps) *Handler {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Handler{
		cfg:       cfg,
		svc:       deps.League,
		db:        deps.DB,
		uploads:   deps.Uploads,
		backups:   deps.Backups,
		cache:     deps.Cache,
		wsHub:     deps.Hub,
		jwt:       deps.JWT,
		version:   deps.Version,
		startTime: time.Now(),
	}
}

// actorFrom converts request claims into a league actor. Anonymous requests
// get a viewer actor with no identity.
func actorFrom(r *http.Request) league.Actor {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return league.Actor{Role: models.RoleViewer}
	}
	return league.Actor{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
		ClubID:   claims.ClubID,
	}
}

// canSeeDrafts reports whether the caller may read unpublished content.
func canSeeDrafts(r *http.Request) bool {
	return actorFrom(r).IsStaff()
}
