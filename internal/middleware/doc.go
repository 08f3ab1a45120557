// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Package middleware provides HTTP middleware for the chi router.

Every middleware here has the chi signature func(http.Handler) http.Handler
and is installed globally by internal/api:

	r.Use(middleware.RequestID)        // request + correlation IDs
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors)                        // go-chi/cors, built in internal/api
	r.Use(rateLimit)                   // go-chi/httprate, built in internal/api
	r.Use(middleware.SecurityHeaders(production))
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog)

Request ID:

RequestID reuses a well-formed X-Request-ID sent by a proxy and otherwise
generates a UUID. The ID is echoed in the response header and stored with a
fresh correlation ID in the logging context, so logging.Ctx(r.Context())
carries both fields.

Prometheus Metrics:

PrometheusMetrics labels requests with the matched chi route pattern
("/api/v1/clubs/{id}") rather than the raw path, which keeps label
cardinality bounded. Unmatched requests are labelled "unmatched".

The wrapped ResponseWriter comes from chi's WrapResponseWriter, so it keeps
http.Hijacker for the websocket upgrade on /api/v1/ws.
*/
package middleware
