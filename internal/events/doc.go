// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Package events carries league domain events from the service layer to the
view cache and the websocket hub.

# Architecture

	league.Service --Publish--> Bus (watermill gochannel)
	                              |
	                              v
	                     Router (message.Router)
	                      |                   |
	          cache invalidation        websocket broadcast

Events are notifications only. The store stays the source of truth, the bus
is in-process and not persistent, and nothing depends on delivery order. A
failed publish is logged by the caller and never fails the write that
produced it.

# Topics

  - game.recorded: a final result was recorded or corrected
  - game.deleted: a game was removed
  - playoff.updated: a bracket was created, reseeded, advanced or deleted
  - season.updated: season settings, participants, a schedule, or a club or
    player name changed
  - ranking.published: a power-rankings post was published
  - article.published: an article was published

# Handlers

RegisterCacheInvalidation drops every cached view of the event's season, or
the whole cache for events that carry no season. RegisterBroadcast forwards
every topic to websocket clients as {"type": <topic>, "data": <event>}.

The router wraps handlers with watermill's Recoverer and Retry middleware.
Router.Serve builds a fresh watermill router on every call so the service
can be restarted by the supervisor.
*/
package events
