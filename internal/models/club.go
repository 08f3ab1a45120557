// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package models

// Player positions
const (
	PositionCenter    = "C"
	PositionLeftWing  = "LW"
	PositionRightWing = "RW"
	PositionDefense   = "D"
	PositionGoalie    = "G"
)

// ValidPositions lists every accepted player position.
var ValidPositions = []string{PositionCenter, PositionLeftWing, PositionRightWing, PositionDefense, PositionGoalie}

// IsValidPosition checks if a position code is valid.
func IsValidPosition(p string) bool {
	for _, v := range ValidPositions {
		if v == p {
			return true
		}
	}
	return false
}

// Manager titles
const (
	TitleGM    = "gm"
	TitleAGM   = "agm"
	TitleCoach = "coach"
)

// ClubColors holds a club's colors as hex strings (#rrggbb).
type ClubColors struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
}

// Club is a team in the league.
type Club struct {
	Base
	Name        string     `json:"name"`
	ShortName   string     `json:"short_name"`
	LogoURL     string     `json:"logo_url,omitempty"`
	Description string     `json:"description,omitempty"`
	Active      bool       `json:"active"`
	Colors      ClubColors `json:"colors"`
}

// Player is a rostered or free-agent player. An empty ClubID means free agent.
type Player struct {
	Base
	Gamertag    string `json:"gamertag"`
	DisplayName string `json:"display_name,omitempty"`
	Position    string `json:"position"`
	Number      int    `json:"number"`
	ClubID      string `json:"club_id,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	Active      bool   `json:"active"`
}

// IsFreeAgent reports whether the player has no club.
func (p *Player) IsFreeAgent() bool { return p.ClubID == "" }

// IsGoalie reports whether the player's primary position is goalie.
func (p *Player) IsGoalie() bool { return p.Position == PositionGoalie }

// Manager is a club staff member. UserID links to a login account when set.
type Manager struct {
	Base
	ClubID string `json:"club_id"`
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name"`
	Title  string `json:"title"`
}
