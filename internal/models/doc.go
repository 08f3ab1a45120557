// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Package models defines the documents stored by Rinkside and the derived views
computed from them.

Stored documents (one store collection each):
  - Club, Player, Manager: league membership and rosters
  - Season, Game: schedules and results, with nested per-player game stats
  - Playoff: a seeded bracket with series and recorded series games
  - Ranking: weekly power-rankings posts
  - User: accounts with a role (admin, manager, viewer)
  - Article: news posts, draft or published
  - AuditEvent: mutation log written by staff actions

Derived views (never stored):
  - StandingRow: one line of a season standings table
  - PlayerSeasonStats, GoalieSeasonStats: aggregated from game player_stats
  - LeaderRow: one entry of a statistical leaderboard
  - PowerRankingRow: computed power ranking

All documents embed Base, which carries ID and timestamps and satisfies the
Document interface used by the store.
*/
package models
