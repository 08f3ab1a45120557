// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package models

import (
	"time"
)

// Season statuses
const (
	SeasonUpcoming  = "upcoming"
	SeasonActive    = "active"
	SeasonCompleted = "completed"
)

// PointsRule is the standings points awarded per result.
type PointsRule struct {
	Win  int `json:"win"`
	OTL  int `json:"otl"`
	Loss int `json:"loss"`
}

// Season groups games between a fixed set of participant clubs.
type Season struct {
	Base
	Name     string     `json:"name"`
	Number   int        `json:"number"`
	Status   string     `json:"status"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
	ClubIDs  []string   `json:"club_ids"`
	// Points overrides the league defaults field by field; zero values fall back.
	Points PointsRule `json:"points"`
}

// HasClub reports whether clubID participates in the season.
func (s *Season) HasClub(clubID string) bool {
	for _, id := range s.ClubIDs {
		if id == clubID {
			return true
		}
	}
	return false
}

// Rules merges the season's points overrides with the league defaults.
func (s *Season) Rules(defaults PointsRule) PointsRule {
	r := defaults
	if s.Points.Win != 0 {
		r.Win = s.Points.Win
	}
	if s.Points.OTL != 0 {
		r.OTL = s.Points.OTL
	}
	if s.Points.Loss != 0 {
		r.Loss = s.Points.Loss
	}
	return r
}
