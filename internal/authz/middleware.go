// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package authz

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/rinkside/internal/auth"
	"github.com/tomtom215/rinkside/internal/logging"
)

// Middleware provides authorization middleware using Casbin.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware creates a new authorization middleware.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{
		enforcer: enforcer,
	}
}

// Authorize returns middleware that requires the caller's role to be allowed
// action on resource. It must run after auth.Middleware.Authenticate; requests
// without claims are rejected with 403 as well.
func (m *Middleware) Authorize(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				writeForbidden(w, r, "no authentication context")
				return
			}

			start := time.Now()
			allowed, cached, err := m.enforcer.Enforce(claims.Role, resource, action)
			RecordAuthzDecision(claims.Role, resource, action, allowed, time.Since(start), cached)
			if err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Str("resource", resource).Msg("Authorization error")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				logging.Ctx(r.Context()).Debug().
					Str("user", claims.Username).
					Str("role", claims.Role).
					Str("resource", resource).
					Str("action", action).
					Msg("Authorization denied")
				writeForbidden(w, r, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func writeForbidden(w http.ResponseWriter, r *http.Request, message string) {
	var body errorBody
	body.Error.Code = "FORBIDDEN"
	body.Error.Message = "Forbidden: " + message
	body.Error.RequestID = logging.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode forbidden response")
	}
}
