// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/rinkside/internal/config"
	"github.com/tomtom215/rinkside/internal/logging"
	"github.com/tomtom215/rinkside/internal/models"
)

type contextKey string

// ClaimsContextKey stores *Claims in the request context.
const ClaimsContextKey contextKey = "claims"

// TokenCookieName is the cookie checked when no Authorization header is sent.
const TokenCookieName = "token"

// DevClaims are attached to every request in auth mode "none".
var DevClaims = Claims{UserID: "dev", Username: "dev", Role: models.RoleAdmin}

// ContextWithClaims returns ctx carrying claims.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// ClaimsFromContext returns the claims stored by the middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// Middleware provides authentication middleware
type Middleware struct {
	jwtManager *JWTManager
	authMode   string
}

// NewMiddleware creates a new authentication middleware. jwtManager may be
// nil only in auth mode "none".
func NewMiddleware(jwtManager *JWTManager, authMode string) *Middleware {
	if authMode == "" {
		authMode = config.AuthModeJWT
	}
	return &Middleware{
		jwtManager: jwtManager,
		authMode:   authMode,
	}
}

// AuthMode returns the configured mode.
func (m *Middleware) AuthMode() string {
	return m.authMode
}

// Authenticate is middleware that rejects requests without valid credentials.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.resolve(r)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Str("path", r.URL.Path).Msg("Authentication failed")
			writeUnauthorized(w, r, err.Error())
			return
		}
		if claims == nil {
			writeUnauthorized(w, r, "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// Optional attaches claims when valid credentials are present and carries on
// anonymously otherwise. Invalid tokens are ignored rather than rejected.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.resolve(r)
		if err == nil && claims != nil {
			r = r.WithContext(ContextWithClaims(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

// resolve returns the request's claims, nil claims when no token is sent, or
// an error for a malformed or invalid token.
func (m *Middleware) resolve(r *http.Request) (*Claims, error) {
	if m.authMode == config.AuthModeNone {
		dev := DevClaims
		return &dev, nil
	}
	if m.jwtManager == nil {
		return nil, fmt.Errorf("authentication is not configured")
	}

	token, err := extractToken(r)
	if err != nil || token == "" {
		return nil, err
	}
	return m.jwtManager.ValidateToken(token)
}

// extractToken reads a bearer token from the Authorization header, falling
// back to the token cookie. Both missing returns "", nil.
func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie(TokenCookieName)
		if err != nil {
			return "", nil
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	var body errorBody
	body.Error.Code = "UNAUTHORIZED"
	body.Error.Message = "Unauthorized: " + message
	body.Error.RequestID = logging.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="rinkside"`)
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode unauthorized response")
	}
}
