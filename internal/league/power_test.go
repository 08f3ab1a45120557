// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/rinkside/internal/models"
)

func TestPowerRankings(t *testing.T) {
	t.Parallel()

	season := testSeason("a", "b", "c")
	games := standingsGames()
	rows := PowerRankings(season, Standings(season, testClubs(), games, defaultRules), games)
	require.Len(t, rows, 3)

	assert.Equal(t, "a", rows[0].ClubID)
	assert.Equal(t, 1, rows[0].Rank)
	assert.InDelta(t, 0.667, rows[0].Form, 1e-9)
	assert.InDelta(t, 0.333, rows[0].GoalDiffPerGame, 1e-9)
	assert.InDelta(t, 0.611, rows[0].Score, 1e-9)
	assert.Equal(t, "2-1-0", rows[0].Record)

	assert.Equal(t, "c", rows[1].ClubID)
	assert.InDelta(t, 0.667, rows[1].Form, 1e-9)
	assert.InDelta(t, 0.6, rows[1].Score, 1e-9)
	assert.Equal(t, "1-0-2", rows[1].Record)

	assert.Equal(t, "b", rows[2].ClubID)
	assert.InDelta(t, -0.5, rows[2].GoalDiffPerGame, 1e-9)
	assert.InDelta(t, 0.433, rows[2].Score, 1e-9)
}

func TestPowerRankings_GoalDiffClamped(t *testing.T) {
	t.Parallel()

	season := testSeason("a", "b")
	games := []*models.Game{final("g1", "s1", "a", "b", 12, 0, false, 1)}
	rows := PowerRankings(season, Standings(season, testClubs(), games, defaultRules), games)
	require.Len(t, rows, 2)

	assert.InDelta(t, 12.0, rows[0].GoalDiffPerGame, 1e-9)
	// 0.6 * 1 + 0.3 * 1 + 0.1 * 1
	assert.InDelta(t, 1.0, rows[0].Score, 1e-9)
	assert.InDelta(t, -0.1, rows[1].Score, 1e-9)
}

func TestForm(t *testing.T) {
	t.Parallel()

	assert.Zero(t, form(nil))
	// Only the last five count: W OT W W L
	h := []outcome{outcomeLoss, outcomeLoss, outcomeWin, outcomeOTLoss, outcomeWin, outcomeWin, outcomeLoss}
	assert.InDelta(t, 0.7, form(h), 1e-9)
}
