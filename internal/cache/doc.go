// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Package cache provides a thread-safe in-memory TTL cache for derived league views.

Standings, player stats, leader boards and power rankings are recomputed from
every game of a season, so the league service keeps them here keyed by
season:

	season:<id>:standings
	season:<id>:stats:<club>:<player>:<scope>
	season:<id>:leaders:<category>:<scope>:<limit>:<min>
	season:<id>:power

Entries expire after the configured TTL. The event router removes every
entry of a season with DeletePrefix when a game, playoff or season changes,
and Clear drops everything when a change touches no single season (a club
rename, for example). There is no size bound and no eviction policy other
than expiry.

# Usage Example

	c := cache.New(5 * time.Minute)
	defer c.Stop()

	c.Set("season:s1:standings", rows)
	if v, ok := c.Get("season:s1:standings"); ok {
	    rows := v.([]models.StandingRow)
	}

	removed := c.DeletePrefix("season:s1:")

# Metrics

Lookups are counted in rinkside_cache_hits_total and rinkside_cache_misses_total
labelled by view (the segment after the season ID). Invalidations are counted
in rinkside_cache_invalidations_total and the live entry count is exported as
rinkside_cache_entries.

# Thread Safety

All methods are safe for concurrent use.
*/
package cache
