// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package league

import (
	"sort"
	"strings"

	"github.com/tomtom215/rinkside/internal/models"
)

// Game scopes for stat aggregation
const (
	ScopeAll      = ""
	ScopeRegular  = "regular"
	ScopePlayoffs = "playoffs"
)

// StatsFilter narrows the games and stat lines that are aggregated.
// Empty fields match everything.
type StatsFilter struct {
	SeasonID string
	ClubID   string
	PlayerID string
	Scope    string
}

func (f StatsFilter) matchGame(g *models.Game) bool {
	if !g.IsFinal() {
		return false
	}
	if f.SeasonID != "" && g.SeasonID != f.SeasonID {
		return false
	}
	switch f.Scope {
	case ScopeRegular:
		return !g.IsPlayoff()
	case ScopePlayoffs:
		return g.IsPlayoff()
	}
	return true
}

func (f StatsFilter) matchLine(s *models.PlayerGameStats) bool {
	if f.ClubID != "" && s.ClubID != f.ClubID {
		return false
	}
	if f.PlayerID != "" && s.PlayerID != f.PlayerID {
		return false
	}
	return true
}

// AggregateStats sums the nested player stats of the games matching filter.
// Skater and goalie lines are split by the position recorded in each game, so
// a player who has played both appears in both lists. players supplies
// gamertags; the club on each line is the one from the player's latest game.
func AggregateStats(games []*models.Game, players map[string]*models.Player, filter StatsFilter) ([]models.PlayerSeasonStats, []models.GoalieSeasonStats) {
	selected := make([]*models.Game, 0, len(games))
	for _, g := range games {
		if filter.matchGame(g) {
			selected = append(selected, g)
		}
	}
	sortByTime(selected)

	skaters := make(map[string]*models.PlayerSeasonStats)
	goalies := make(map[string]*models.GoalieSeasonStats)

	for _, g := range selected {
		for i := range g.PlayerStats {
			line := &g.PlayerStats[i]
			if line.PlayerID == "" || !filter.matchLine(line) {
				continue
			}
			if line.IsGoalie() {
				row, ok := goalies[line.PlayerID]
				if !ok {
					row = &models.GoalieSeasonStats{PlayerID: line.PlayerID, Gamertag: gamertag(players, line.PlayerID)}
					goalies[line.PlayerID] = row
				}
				row.ClubID = line.ClubID
				row.GP++
				row.Saves += line.Saves
				row.ShotsAgainst += line.ShotsAgainst
				row.GoalsAgainst += line.GoalsAgainst
				if line.GoalsAgainst == 0 && line.ShotsAgainst > 0 {
					row.Shutouts++
				}
				continue
			}

			row, ok := skaters[line.PlayerID]
			if !ok {
				row = &models.PlayerSeasonStats{PlayerID: line.PlayerID, Gamertag: gamertag(players, line.PlayerID)}
				skaters[line.PlayerID] = row
			}
			row.ClubID = line.ClubID
			row.Position = line.Position
			row.GP++
			row.Goals += line.Goals
			row.Assists += line.Assists
			row.Shots += line.Shots
			row.Hits += line.Hits
			row.PIM += line.PIM
			row.PlusMinus += line.PlusMinus
		}
	}

	skaterRows := make([]models.PlayerSeasonStats, 0, len(skaters))
	for _, row := range skaters {
		row.Points = row.Goals + row.Assists
		if row.Shots > 0 {
			row.ShootingPct = round3(float64(row.Goals) / float64(row.Shots))
		}
		if row.GP > 0 {
			row.PointsPerGame = round3(float64(row.Points) / float64(row.GP))
		}
		skaterRows = append(skaterRows, *row)
	}
	sort.Slice(skaterRows, func(i, j int) bool {
		a, b := skaterRows[i], skaterRows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Goals != b.Goals {
			return a.Goals > b.Goals
		}
		return lessTag(a.Gamertag, a.PlayerID, b.Gamertag, b.PlayerID)
	})

	goalieRows := make([]models.GoalieSeasonStats, 0, len(goalies))
	for _, row := range goalies {
		if row.ShotsAgainst > 0 {
			row.SavePct = round3(float64(row.Saves) / float64(row.ShotsAgainst))
		}
		if row.GP > 0 {
			row.GAA = round3(float64(row.GoalsAgainst) / float64(row.GP))
		}
		goalieRows = append(goalieRows, *row)
	}
	sort.Slice(goalieRows, func(i, j int) bool {
		a, b := goalieRows[i], goalieRows[j]
		if a.SavePct != b.SavePct {
			return a.SavePct > b.SavePct
		}
		if a.GP != b.GP {
			return a.GP > b.GP
		}
		return lessTag(a.Gamertag, a.PlayerID, b.Gamertag, b.PlayerID)
	})

	return skaterRows, goalieRows
}

func gamertag(players map[string]*models.Player, id string) string {
	if p, ok := players[id]; ok && p.Gamertag != "" {
		return p.Gamertag
	}
	return id
}

// lessTag orders by case-insensitive gamertag, then player ID.
func lessTag(tagA, idA, tagB, idB string) bool {
	la, lb := strings.ToLower(tagA), strings.ToLower(tagB)
	if la != lb {
		return la < lb
	}
	return idA < idB
}
