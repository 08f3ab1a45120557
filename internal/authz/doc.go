// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Package authz provides role-based authorization using Casbin.

Subjects are roles (admin, manager, viewer). The embedded policy makes admin
inherit manager and manager inherit viewer. Objects are resource names such
as "clubs" or "games" and actions are read, write and delete.

Casbin answers the coarse question "may a manager write games at all". Whether
a particular manager may write a particular game is decided by the league
service, which knows about club ownership.

Usage:

	enforcer, err := authz.NewEnforcer(ctx, authz.ConfigFrom(&cfg.Security.Casbin))
	if err != nil {
	    return err
	}
	defer enforcer.Close()

	mw := authz.NewMiddleware(enforcer)
	r.With(mw.Authorize(authz.ResourceGames, authz.ActionWrite)).Post("/games", h.CreateGame)

Decisions are cached for a short TTL. Any policy change clears the cache.
*/
package authz
