// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Rinksidectl is the operator CLI for a running Rinkside server.

Usage:

	rinksidectl [--url URL] [--token TOKEN] [--timeout 30s] <command>

Commands:

	ping                      check health, clubs, seasons and articles
	login -u NAME [-p PASS]   sign in and print a bearer token
	logos clean [--dry-run]   remove uploads nothing references
	backup create             take a database backup now
	backup list               list backups on the server
	games import FILE         create a season's games from YAML

Environment:

	RINKSIDE_URL       default for --url (http://localhost:8080)
	RINKSIDE_TOKEN     default for --token
	RINKSIDE_PASSWORD  password for login when -p is not given

All calls go through one client that rate limits requests and opens a
circuit breaker after three consecutive transport or 5xx failures, so a
bulk import against a struggling server backs off instead of piling on.
*/
package main
