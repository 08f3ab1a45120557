// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/rinkside/internal/auth"
	"github.com/tomtom215/rinkside/internal/config"
	"github.com/tomtom215/rinkside/internal/logging"
	"github.com/tomtom215/rinkside/internal/models"
)

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	User      models.PublicUser `json:"user"`
}

// Login handles POST /auth/login. The token is returned in the body and set
// as an HTTP-only cookie for browser clients.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Security.AuthMode == config.AuthModeNone || h.jwt == nil {
		NewResponseWriter(w, r).Forbidden(ErrAuthDisabled.Error())
		return
	}

	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}

	user, err := h.svc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		logging.Ctx(r.Context()).Info().
			Str("username", sanitizeLogValue(req.Username)).
			Msg("Login failed")
		respondErr(w, r, err)
		return
	}

	token, expires, err := h.jwt.GenerateToken(user)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	logging.Ctx(r.Context()).Info().Str("username", user.Username).Str("role", user.Role).Msg("User logged in")
	WriteSuccess(w, r, LoginResponse{Token: token, ExpiresAt: expires, User: user.Public()})
}

// Logout clears the token cookie. Tokens stay valid until they expire.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	NewResponseWriter(w, r).NoContent()
}

// Register handles POST /auth/register, creating a viewer account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	user, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(user.Public())
}

// Me returns the caller's account. Auth mode "none" answers with the
// development identity.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		NewResponseWriter(w, r).Unauthorized("authentication required")
		return
	}
	if claims.UserID == auth.DevClaims.UserID && h.cfg.Security.AuthMode == config.AuthModeNone {
		WriteSuccess(w, r, models.PublicUser{ID: claims.UserID, Username: claims.Username, Role: claims.Role})
		return
	}
	user, err := h.svc.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, user.Public())
}
