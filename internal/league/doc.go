// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Package league holds the league rules and the service that applies them.

The pure functions derive views from stored games:

  - Standings: the season table, with points, streak and last-ten record
  - AggregateStats: skater and goalie season lines from nested player stats
  - Leaders: sorted category leaderboards over aggregated lines
  - PowerRankings: a weighted score of points percentage, recent form and
    goal differential

Service wraps the document store and enforces the write rules: referential
checks on delete, manager ownership of their club, result validation,
playoff advancement for linked games, ranking publication and the audit
trail. Domain events are published after successful writes; a failed
publish is logged and never fails the write.

Usage:

	svc := league.NewService(st, league.Config{
	    Points:              models.PointsRule{Win: 2, OTL: 1},
	    DefaultSeriesLength: 7,
	}, bus, viewCache)

	rows, err := svc.Standings(ctx, seasonID)
*/
package league
