// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

// Package logging provides the zerolog-based structured logger used across Rinkside.
//
// A single global logger is configured once from main and accessed through
// package-level helpers:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("club", id).Msg("Club created")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Result rejected")
//
// Request and correlation IDs travel in the request context and are attached
// automatically by Ctx. Two adapters bridge zerolog to libraries that expect
// their own logger interfaces:
//
//   - SlogHandler: slog.Handler for the suture supervisor (via sutureslog)
//   - WatermillLogger: watermill.LoggerAdapter for the event router
//
// # Configuration
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
//
// Always terminate event chains with Msg or Send, otherwise nothing is written.
package logging
