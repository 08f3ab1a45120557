// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Package api provides the HTTP handlers and chi router for the Rinkside REST API.

All endpoints live under /api/v1 and answer with a common JSON envelope:

	{
	  "success": true,
	  "data": {...},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3,
	           "pagination": {"count": 20, "offset": 0, "limit": 20, "total": 57, "has_more": true}}
	}

and on failure:

	{
	  "success": false,
	  "error": {"code": "VALIDATION_FAILED", "message": "...", "details": {"fields": [...]},
	            "request_id": "..."}
	}

Access Model:

Reads are public. They run behind auth.Middleware.Optional, so an anonymous
caller sees published rankings and articles only while staff also see drafts.
Writes require a valid token (auth.Middleware.Authenticate) and a casbin
decision (authz.Middleware.Authorize) for the resource and action; club
ownership rules for managers are enforced by the league service.

Error Mapping:

Service and store errors are mapped with errors.Is:

	store.ErrNotFound                       404 NOT_FOUND
	store.ErrConflict, league.ErrReferenced 409 CONFLICT
	league.ErrInvalid, store.ErrInvalid     400 BAD_REQUEST
	validation errors                       400 VALIDATION_FAILED
	league.ErrForbidden                     403 FORBIDDEN
	league.ErrInvalidCredentials            401 UNAUTHORIZED
	anything else                           500 INTERNAL_ERROR

Live Updates:

GET /api/v1/ws upgrades to a websocket registered with the hub. Domain
events (game.recorded, playoff.updated, ...) are forwarded to every client
by the event router.
*/
package api
