// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package models

import (
	"time"
)

// Game statuses
const (
	GameScheduled = "scheduled"
	GameFinal     = "final"
)

// PlayerGameStats is one player's line in a single game.
// Goalies use Saves, ShotsAgainst and GoalsAgainst; skaters use the rest.
type PlayerGameStats struct {
	PlayerID     string `json:"player_id"`
	ClubID       string `json:"club_id"`
	Position     string `json:"position"`
	Goals        int    `json:"goals"`
	Assists      int    `json:"assists"`
	Shots        int    `json:"shots"`
	Hits         int    `json:"hits"`
	PIM          int    `json:"pim"`
	PlusMinus    int    `json:"plus_minus"`
	Saves        int    `json:"saves,omitempty"`
	ShotsAgainst int    `json:"shots_against,omitempty"`
	GoalsAgainst int    `json:"goals_against,omitempty"`
}

// IsGoalie reports whether this line is a goalie line.
func (s *PlayerGameStats) IsGoalie() bool { return s.Position == PositionGoalie }

// Game is a scheduled or played match between two clubs.
type Game struct {
	Base
	SeasonID    string            `json:"season_id"`
	HomeClubID  string            `json:"home_club_id"`
	AwayClubID  string            `json:"away_club_id"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	PlayedAt    *time.Time        `json:"played_at,omitempty"`
	Status      string            `json:"status"`
	HomeScore   int               `json:"home_score"`
	AwayScore   int               `json:"away_score"`
	Overtime    bool              `json:"overtime"`
	PlayoffID   string            `json:"playoff_id,omitempty"`
	SeriesID    string            `json:"series_id,omitempty"`
	PlayerStats []PlayerGameStats `json:"player_stats,omitempty"`
}

// IsFinal reports whether the game has a recorded result.
func (g *Game) IsFinal() bool { return g.Status == GameFinal }

// IsPlayoff reports whether the game belongs to a playoff series.
func (g *Game) IsPlayoff() bool { return g.PlayoffID != "" }

// Involves reports whether clubID is one of the two clubs.
func (g *Game) Involves(clubID string) bool {
	return clubID != "" && (g.HomeClubID == clubID || g.AwayClubID == clubID)
}

// Winner returns the winning club ID, or "" for unplayed or tied games.
func (g *Game) Winner() string {
	if !g.IsFinal() {
		return ""
	}
	switch {
	case g.HomeScore > g.AwayScore:
		return g.HomeClubID
	case g.AwayScore > g.HomeScore:
		return g.AwayClubID
	}
	return ""
}

// Loser returns the losing club ID, or "" for unplayed or tied games.
func (g *Game) Loser() string {
	switch g.Winner() {
	case "":
		return ""
	case g.HomeClubID:
		return g.AwayClubID
	}
	return g.HomeClubID
}

// ScoreFor returns goals for and against from clubID's perspective.
func (g *Game) ScoreFor(clubID string) (gf, ga int) {
	if clubID == g.HomeClubID {
		return g.HomeScore, g.AwayScore
	}
	return g.AwayScore, g.HomeScore
}

// Opponent returns the other club in the game.
func (g *Game) Opponent(clubID string) string {
	if clubID == g.HomeClubID {
		return g.AwayClubID
	}
	return g.HomeClubID
}

// SortTime is the time used to order games chronologically.
func (g *Game) SortTime() time.Time {
	if g.PlayedAt != nil {
		return *g.PlayedAt
	}
	return g.ScheduledAt
}
