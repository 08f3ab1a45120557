// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestBaseStamp(t *testing.T) {
	t.Parallel()

	var b Base
	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	b.Stamp(first)
	if !b.CreatedAt.Equal(first) || !b.UpdatedAt.Equal(first) {
		t.Fatalf("first stamp = %v/%v, want %v", b.CreatedAt, b.UpdatedAt, first)
	}

	later := first.Add(time.Hour)
	b.Stamp(later)
	if !b.CreatedAt.Equal(first) {
		t.Errorf("CreatedAt changed on second stamp: %v", b.CreatedAt)
	}
	if !b.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", b.UpdatedAt, later)
	}
}

func TestGameWinnerLoser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		game       Game
		wantWinner string
		wantLoser  string
	}{
		{"home win", Game{HomeClubID: "h", AwayClubID: "a", Status: GameFinal, HomeScore: 3, AwayScore: 1}, "h", "a"},
		{"away win", Game{HomeClubID: "h", AwayClubID: "a", Status: GameFinal, HomeScore: 2, AwayScore: 4}, "a", "h"},
		{"tie", Game{HomeClubID: "h", AwayClubID: "a", Status: GameFinal, HomeScore: 2, AwayScore: 2}, "", ""},
		{"scheduled", Game{HomeClubID: "h", AwayClubID: "a", Status: GameScheduled, HomeScore: 3}, "", ""},
	}

	for _, tt := range tests {
		if got := tt.game.Winner(); got != tt.wantWinner {
			t.Errorf("%s: Winner() = %q, want %q", tt.name, got, tt.wantWinner)
		}
		if got := tt.game.Loser(); got != tt.wantLoser {
			t.Errorf("%s: Loser() = %q, want %q", tt.name, got, tt.wantLoser)
		}
	}
}

func TestGameScoreFor(t *testing.T) {
	t.Parallel()

	g := Game{HomeClubID: "h", AwayClubID: "a", HomeScore: 5, AwayScore: 2}
	if gf, ga := g.ScoreFor("h"); gf != 5 || ga != 2 {
		t.Errorf("ScoreFor(h) = %d-%d, want 5-2", gf, ga)
	}
	if gf, ga := g.ScoreFor("a"); gf != 2 || ga != 5 {
		t.Errorf("ScoreFor(a) = %d-%d, want 2-5", gf, ga)
	}
	if g.Opponent("h") != "a" || g.Opponent("a") != "h" {
		t.Error("Opponent() mismatch")
	}
	if g.Involves("") {
		t.Error("Involves(\"\") should be false")
	}
}

func TestSeasonRules(t *testing.T) {
	t.Parallel()

	defaults := PointsRule{Win: 2, OTL: 1, Loss: 0}
	s := Season{}
	if got := s.Rules(defaults); got != defaults {
		t.Errorf("Rules() = %+v, want defaults %+v", got, defaults)
	}

	s.Points = PointsRule{Win: 3}
	want := PointsRule{Win: 3, OTL: 1, Loss: 0}
	if got := s.Rules(defaults); got != want {
		t.Errorf("Rules() = %+v, want %+v", got, want)
	}
}

func TestUserPublicOmitsHash(t *testing.T) {
	t.Parallel()

	u := User{Username: "ref", PasswordHash: "$2a$secret", Role: RoleAdmin}
	data, err := json.Marshal(u.Public())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "secret") || strings.Contains(string(data), "password") {
		t.Errorf("public user leaks credentials: %s", data)
	}
}

func TestRoles(t *testing.T) {
	t.Parallel()

	for _, r := range ValidRoles {
		if !IsValidRole(r) {
			t.Errorf("IsValidRole(%q) = false", r)
		}
	}
	if IsValidRole("editor") {
		t.Error("IsValidRole(editor) should be false")
	}
	if IsStaff(RoleViewer) || !IsStaff(RoleManager) || !IsStaff(RoleAdmin) {
		t.Error("IsStaff mismatch")
	}
}

func TestSeriesHelpers(t *testing.T) {
	t.Parallel()

	s := &Series{ID: "r1s0", Top: &Entrant{ClubID: "a", Seed: 1}, Bottom: &Entrant{ClubID: "b", Seed: 8}}
	if !s.IsReady() || s.IsClosed() {
		t.Fatal("series should be ready and open")
	}
	if !s.Has("a") || !s.Has("b") || s.Has("c") {
		t.Error("Has() mismatch")
	}
	if e := s.EntrantFor("b"); e == nil || e.Seed != 8 {
		t.Errorf("EntrantFor(b) = %+v", e)
	}

	p := &Playoff{Rounds: [][]*Series{{s}}}
	if p.FindSeries("r1s0") != s || p.FindSeries("r9s9") != nil {
		t.Error("FindSeries mismatch")
	}
}

func TestRankingEntryMovement(t *testing.T) {
	t.Parallel()

	if m := (RankingEntry{Rank: 2, PreviousRank: 5}).Movement(); m != 3 {
		t.Errorf("Movement() = %d, want 3", m)
	}
	if m := (RankingEntry{Rank: 2}).Movement(); m != 0 {
		t.Errorf("Movement() for new entry = %d, want 0", m)
	}
}
