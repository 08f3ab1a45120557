// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package api

import (
	"context"
	"net/http"
	"time"
)

// pingTimeout bounds the store check behind health endpoints.
const pingTimeout = 2 * time.Second

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version,omitempty"`
	DatabaseConnected bool    `json:"database_connected"`
	WebSocketClients  int     `json:"websocket_clients"`
	Uptime            float64 `json:"uptime"`
}

func (h *Handler) dbConnected(ctx context.Context) bool {
	if h.db == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return h.db.Ping(ctx) == nil
}

// Health reports overall status. It always answers 200; a store that
// cannot be reached turns the status to "degraded".
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbOK := h.dbConnected(r.Context())
	status := "healthy"
	if !dbOK {
		status = "degraded"
	}
	clients := 0
	if h.wsHub != nil {
		clients = h.wsHub.GetClientCount()
	}
	WriteSuccess(w, r, HealthStatus{
		Status:            status,
		Version:           h.version,
		DatabaseConnected: dbOK,
		WebSocketClients:  clients,
		Uptime:            time.Since(h.startTime).Seconds(),
	})
}

// HealthLive is the liveness check.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady is the readiness check: 503 until the store answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.dbConnected(r.Context()) {
		NewResponseWriter(w, r).ServiceUnavailable("database is not reachable")
		return
	}
	WriteSuccess(w, r, map[string]interface{}{
		"ready":              true,
		"database_connected": true,
	})
}
