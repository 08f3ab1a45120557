// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package league

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/rinkside/internal/models"
)

var baseTime = time.Date(2026, 1, 5, 20, 0, 0, 0, time.UTC)

// final builds a final game n hours after baseTime.
func final(id, season, home, away string, hs, as int, ot bool, n int) *models.Game {
	at := baseTime.Add(time.Duration(n) * time.Hour)
	return &models.Game{
		Base:        models.Base{ID: id},
		SeasonID:    season,
		HomeClubID:  home,
		AwayClubID:  away,
		ScheduledAt: at,
		PlayedAt:    &at,
		Status:      models.GameFinal,
		HomeScore:   hs,
		AwayScore:   as,
		Overtime:    ot,
	}
}

func testSeason(clubs ...string) *models.Season {
	return &models.Season{Base: models.Base{ID: "s1"}, Name: "Season 1", ClubIDs: clubs}
}

func testClubs() map[string]*models.Club {
	return map[string]*models.Club{
		"a": {Base: models.Base{ID: "a"}, Name: "Anchors", ShortName: "ANC"},
		"b": {Base: models.Base{ID: "b"}, Name: "Bruisers", ShortName: "BRU"},
		"c": {Base: models.Base{ID: "c"}, Name: "Comets", ShortName: "COM"},
	}
}

var defaultRules = models.PointsRule{Win: 2, OTL: 1, Loss: 0}

func standingsGames() []*models.Game {
	playoff := final("p1", "s1", "a", "b", 5, 0, false, 10)
	playoff.PlayoffID = "po"
	scheduled := final("x1", "s1", "a", "b", 0, 0, false, 11)
	scheduled.Status = models.GameScheduled
	scheduled.PlayedAt = nil

	return []*models.Game{
		final("g4", "s1", "a", "c", 2, 1, true, 4),
		final("g1", "s1", "a", "b", 3, 1, false, 1),
		final("g3", "s1", "c", "a", 4, 2, false, 3),
		final("g2", "s1", "b", "c", 2, 1, true, 2),
		playoff,
		scheduled,
		final("o1", "s2", "a", "b", 9, 0, false, 5),
		final("d1", "s1", "a", "d", 9, 0, false, 6),
	}
}

func TestStandings(t *testing.T) {
	t.Parallel()

	rows := Standings(testSeason("a", "b", "c"), testClubs(), standingsGames(), defaultRules)
	require.Len(t, rows, 3)

	a, c, b := rows[0], rows[1], rows[2]
	assert.Equal(t, []string{"a", "c", "b"}, []string{a.ClubID, c.ClubID, b.ClubID})
	assert.Equal(t, []int{1, 2, 3}, []int{a.Rank, c.Rank, b.Rank})

	assert.Equal(t, "Anchors", a.ClubName)
	assert.Equal(t, "ANC", a.ShortName)
	assert.Equal(t, 3, a.GP)
	assert.Equal(t, 2, a.W)
	assert.Equal(t, 1, a.L)
	assert.Equal(t, 0, a.OTL)
	assert.Equal(t, 4, a.PTS)
	assert.Equal(t, 7, a.GF)
	assert.Equal(t, 6, a.GA)
	assert.Equal(t, 1, a.Diff)
	assert.InDelta(t, 0.667, a.PointsPct, 1e-9)
	assert.Equal(t, "W1", a.Streak)
	assert.Equal(t, "2-1-0", a.Last10)

	// Two overtime losses are worth a point each.
	assert.Equal(t, 1, c.W)
	assert.Equal(t, 2, c.OTL)
	assert.Equal(t, 4, c.PTS)
	assert.Equal(t, 0, c.Diff)
	assert.Equal(t, "OT1", c.Streak)
	assert.Equal(t, "1-0-2", c.Last10)

	assert.Equal(t, 2, b.GP)
	assert.Equal(t, 2, b.PTS)
	assert.Equal(t, -1, b.Diff)
	assert.InDelta(t, 0.5, b.PointsPct, 1e-9)
}

func TestStandings_NoGames(t *testing.T) {
	t.Parallel()

	clubs := map[string]*models.Club{
		"x": {Name: "beta"},
		"y": {Name: "Alpha"},
	}
	rows := Standings(testSeason("x", "y", "z"), clubs, nil, defaultRules)
	require.Len(t, rows, 3)

	// Unknown clubs fall back to their ID for display and sorting.
	assert.Equal(t, []string{"y", "x", "z"}, []string{rows[0].ClubID, rows[1].ClubID, rows[2].ClubID})
	assert.Equal(t, "z", rows[2].ClubName)
	for _, r := range rows {
		assert.Zero(t, r.GP)
		assert.Zero(t, r.PointsPct)
		assert.Empty(t, r.Streak)
		assert.Equal(t, "0-0-0", r.Last10)
	}
}

func TestStandings_TieBreakers(t *testing.T) {
	t.Parallel()

	// a and b both finish on 2 points with one win; a has the better differential.
	games := []*models.Game{
		final("g1", "s1", "a", "c", 5, 0, false, 1),
		final("g2", "s1", "b", "c", 1, 0, false, 2),
		final("g3", "s1", "c", "a", 1, 0, false, 3),
		final("g4", "s1", "c", "b", 1, 0, false, 4),
	}
	rows := Standings(testSeason("b", "c", "a"), testClubs(), games, defaultRules)
	require.Len(t, rows, 3)
	assert.Equal(t, "c", rows[0].ClubID)
	assert.Equal(t, "a", rows[1].ClubID)
	assert.Equal(t, "b", rows[2].ClubID)
}

func TestStandings_CustomRules(t *testing.T) {
	t.Parallel()

	rules := models.PointsRule{Win: 3, OTL: 1, Loss: 0}
	games := []*models.Game{final("g1", "s1", "a", "b", 2, 1, true, 1)}
	rows := Standings(testSeason("a", "b"), testClubs(), games, rules)
	assert.Equal(t, 3, rows[0].PTS)
	assert.Equal(t, 1, rows[1].PTS)
	assert.InDelta(t, 0.333, rows[1].PointsPct, 1e-9)
}

func TestStreakAndLastN(t *testing.T) {
	t.Parallel()

	h := []outcome{outcomeLoss, outcomeWin, outcomeWin, outcomeWin}
	assert.Equal(t, "W3", streak(h))
	assert.Equal(t, "3-1-0", lastN(h, 10))
	assert.Equal(t, "2-0-0", lastN(h, 2))

	long := make([]outcome, 0, 12)
	for i := 0; i < 12; i++ {
		long = append(long, outcomeOTLoss)
	}
	assert.Equal(t, "OT12", streak(long))
	assert.Equal(t, "0-0-10", lastN(long, 10))
}
