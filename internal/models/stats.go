// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package models

// StandingRow is one club's line in a season standings table.
type StandingRow struct {
	Rank      int     `json:"rank"`
	ClubID    string  `json:"club_id"`
	ClubName  string  `json:"club_name"`
	ShortName string  `json:"short_name,omitempty"`
	GP        int     `json:"gp"`
	W         int     `json:"w"`
	L         int     `json:"l"`
	OTL       int     `json:"otl"`
	PTS       int     `json:"pts"`
	GF        int     `json:"gf"`
	GA        int     `json:"ga"`
	Diff      int     `json:"diff"`
	PointsPct float64 `json:"points_pct"` // PTS / (GP * win points), 0..1
	Streak    string  `json:"streak"`     // e.g. "W3", "L1", "OT2"; "" with no games
	Last10    string  `json:"last10"`     // "W-L-OT"
}

// PlayerSeasonStats is a skater's aggregated statistics.
type PlayerSeasonStats struct {
	PlayerID      string  `json:"player_id"`
	Gamertag      string  `json:"gamertag"`
	ClubID        string  `json:"club_id"`
	Position      string  `json:"position"`
	GP            int     `json:"gp"`
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	Points        int     `json:"points"`
	Shots         int     `json:"shots"`
	ShootingPct   float64 `json:"shooting_pct"` // goals / shots, 0..1
	Hits          int     `json:"hits"`
	PIM           int     `json:"pim"`
	PlusMinus     int     `json:"plus_minus"`
	PointsPerGame float64 `json:"points_per_game"`
}

// GoalieSeasonStats is a goalie's aggregated statistics.
type GoalieSeasonStats struct {
	PlayerID     string  `json:"player_id"`
	Gamertag     string  `json:"gamertag"`
	ClubID       string  `json:"club_id"`
	GP           int     `json:"gp"`
	Saves        int     `json:"saves"`
	ShotsAgainst int     `json:"shots_against"`
	GoalsAgainst int     `json:"goals_against"`
	SavePct      float64 `json:"save_pct"` // saves / shots against, 0..1
	GAA          float64 `json:"gaa"`      // goals against per game
	Shutouts     int     `json:"shutouts"`
}

// LeaderRow is one entry of a statistical leaderboard.
type LeaderRow struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	Gamertag string  `json:"gamertag"`
	ClubID   string  `json:"club_id"`
	GP       int     `json:"gp"`
	Value    float64 `json:"value"`
}

// PowerRankingRow is a computed power ranking for one club.
type PowerRankingRow struct {
	Rank            int     `json:"rank"`
	ClubID          string  `json:"club_id"`
	ClubName        string  `json:"club_name"`
	Score           float64 `json:"score"`
	PointsPct       float64 `json:"points_pct"`
	Form            float64 `json:"form"`
	GoalDiffPerGame float64 `json:"goal_diff_per_game"`
	Record          string  `json:"record"` // "W-L-OTL"
}
