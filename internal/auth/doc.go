// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Package auth provides authentication for the Rinkside API.

Components:

  - JWTManager: issues and validates HS256 tokens carrying the user ID,
    username, role and managed club
  - HashPassword / CheckPassword: bcrypt password hashing
  - Middleware: chi middleware that reads a bearer token or the "token"
    cookie and stores the claims in the request context

Authentication Modes:

  - jwt: tokens are required on protected routes (default)
  - none: every request runs as a development admin; refused in production
    by config validation

Usage:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    return err
	}
	mw := auth.NewMiddleware(jwtManager, cfg.Security.AuthMode)

	r.Group(func(r chi.Router) {
	    r.Use(mw.Authenticate)
	    r.Post("/api/v1/clubs", h.CreateClub)
	})

Handlers read the caller with ClaimsFromContext:

	claims, ok := auth.ClaimsFromContext(r.Context())
*/
package auth
