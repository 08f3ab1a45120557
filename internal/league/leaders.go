// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package league

import (
	"fmt"
	"sort"

	"github.com/tomtom215/rinkside/internal/models"
)

// Leader categories
const (
	CategoryPoints    = "points"
	CategoryGoals     = "goals"
	CategoryAssists   = "assists"
	CategoryPlusMinus = "plus_minus"
	CategoryHits      = "hits"
	CategoryPIM       = "pim"
	CategoryShots     = "shots"
	CategorySavePct   = "save_pct"
	CategoryGAA       = "gaa"
	CategoryShutouts  = "shutouts"
)

var skaterCategories = map[string]func(models.PlayerSeasonStats) float64{
	CategoryPoints:    func(s models.PlayerSeasonStats) float64 { return float64(s.Points) },
	CategoryGoals:     func(s models.PlayerSeasonStats) float64 { return float64(s.Goals) },
	CategoryAssists:   func(s models.PlayerSeasonStats) float64 { return float64(s.Assists) },
	CategoryPlusMinus: func(s models.PlayerSeasonStats) float64 { return float64(s.PlusMinus) },
	CategoryHits:      func(s models.PlayerSeasonStats) float64 { return float64(s.Hits) },
	CategoryPIM:       func(s models.PlayerSeasonStats) float64 { return float64(s.PIM) },
	CategoryShots:     func(s models.PlayerSeasonStats) float64 { return float64(s.Shots) },
}

var goalieCategories = map[string]func(models.GoalieSeasonStats) float64{
	CategorySavePct:  func(s models.GoalieSeasonStats) float64 { return s.SavePct },
	CategoryGAA:      func(s models.GoalieSeasonStats) float64 { return s.GAA },
	CategoryShutouts: func(s models.GoalieSeasonStats) float64 { return float64(s.Shutouts) },
}

// Categories lists the supported leader categories.
func Categories() []string {
	return []string{
		CategoryPoints, CategoryGoals, CategoryAssists, CategoryPlusMinus, CategoryHits,
		CategoryPIM, CategoryShots, CategorySavePct, CategoryGAA, CategoryShutouts,
	}
}

// IsValidCategory reports whether Leaders accepts category.
func IsValidCategory(category string) bool {
	_, skater := skaterCategories[category]
	_, goalie := goalieCategories[category]
	return skater || goalie
}

// Leaders ranks players for category. Lines with fewer than minGames games are
// skipped and at most limit rows are returned (limit <= 0 means all).
// GAA sorts ascending, everything else descending. Ties go to fewer games
// played, then gamertag.
func Leaders(skaters []models.PlayerSeasonStats, goalies []models.GoalieSeasonStats, category string, limit, minGames int) ([]models.LeaderRow, error) {
	var rows []models.LeaderRow
	if value, ok := skaterCategories[category]; ok {
		for _, s := range skaters {
			if s.GP < minGames {
				continue
			}
			rows = append(rows, models.LeaderRow{
				PlayerID: s.PlayerID, Gamertag: s.Gamertag, ClubID: s.ClubID, GP: s.GP, Value: value(s),
			})
		}
	} else if value, ok := goalieCategories[category]; ok {
		for _, g := range goalies {
			if g.GP < minGames {
				continue
			}
			rows = append(rows, models.LeaderRow{
				PlayerID: g.PlayerID, Gamertag: g.Gamertag, ClubID: g.ClubID, GP: g.GP, Value: value(g),
			})
		}
	} else {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	ascending := category == CategoryGAA
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Value != b.Value {
			if ascending {
				return a.Value < b.Value
			}
			return a.Value > b.Value
		}
		if a.GP != b.GP {
			return a.GP < b.GP
		}
		return lessTag(a.Gamertag, a.PlayerID, b.Gamertag, b.PlayerID)
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	if rows == nil {
		rows = []models.LeaderRow{}
	}
	return rows, nil
}
