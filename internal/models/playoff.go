// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package models

// Playoff statuses
const (
	PlayoffPending    = "pending"
	PlayoffInProgress = "in_progress"
	PlayoffCompleted  = "completed"
)

// Entrant is a seeded club occupying one slot of a series.
type Entrant struct {
	ClubID string `json:"club_id"`
	Seed   int    `json:"seed"`
}

// SeriesGame records the winner of one game in a series.
type SeriesGame struct {
	GameID       string `json:"game_id"`
	WinnerClubID string `json:"winner_club_id"`
}

// Series is a best-of-N matchup. Top holds the better seed.
type Series struct {
	ID           string       `json:"id"`
	Round        int          `json:"round"`
	Index        int          `json:"index"`
	Top          *Entrant     `json:"top,omitempty"`
	Bottom       *Entrant     `json:"bottom,omitempty"`
	TopWins      int          `json:"top_wins"`
	BottomWins   int          `json:"bottom_wins"`
	WinsNeeded   int          `json:"wins_needed"`
	WinnerClubID string       `json:"winner_club_id,omitempty"`
	Games        []SeriesGame `json:"games"`
}

// IsReady reports whether both slots are filled.
func (s *Series) IsReady() bool { return s.Top != nil && s.Bottom != nil }

// IsClosed reports whether a winner has been decided.
func (s *Series) IsClosed() bool { return s.WinnerClubID != "" }

// Has reports whether clubID occupies either slot.
func (s *Series) Has(clubID string) bool {
	return (s.Top != nil && s.Top.ClubID == clubID) || (s.Bottom != nil && s.Bottom.ClubID == clubID)
}

// EntrantFor returns the entrant for clubID, or nil.
func (s *Series) EntrantFor(clubID string) *Entrant {
	switch {
	case s.Top != nil && s.Top.ClubID == clubID:
		return s.Top
	case s.Bottom != nil && s.Bottom.ClubID == clubID:
		return s.Bottom
	}
	return nil
}

// HasGame reports whether gameID was recorded in the series.
func (s *Series) HasGame(gameID string) bool {
	for _, g := range s.Games {
		if g.GameID == gameID {
			return true
		}
	}
	return false
}

// Playoff is a single-elimination bracket for a season.
// Rounds[0] is the first round; the last round holds the final.
type Playoff struct {
	Base
	SeasonID       string      `json:"season_id"`
	Name           string      `json:"name"`
	Status         string      `json:"status"`
	BracketSize    int         `json:"bracket_size"`
	WinsNeeded     []int       `json:"wins_needed"`
	Rounds         [][]*Series `json:"rounds"`
	ChampionClubID string      `json:"champion_club_id,omitempty"`
}

// FindSeries looks up a series by ID.
func (p *Playoff) FindSeries(id string) *Series {
	for _, round := range p.Rounds {
		for _, s := range round {
			if s.ID == id {
				return s
			}
		}
	}
	return nil
}

// GameCount returns the number of recorded games across the bracket.
func (p *Playoff) GameCount() int {
	n := 0
	for _, round := range p.Rounds {
		for _, s := range round {
			n += len(s.Games)
		}
	}
	return n
}
