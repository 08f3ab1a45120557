// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package league

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/rinkside/internal/models"
)

// Power ranking weights. The goal differential term is clamped to
// +/- maxGoalDiffPerGame and scaled to -1..1 before weighting.
const (
	weightPointsPct    = 0.6
	weightForm         = 0.3
	weightGoalDiff     = 0.1
	formGames          = 5
	maxGoalDiffPerGame = 3.0
)

// PowerRankings scores each standings row from its points percentage, its
// form over the last five counted games (win 1, overtime loss 0.5) and its
// goal differential per game. Ties keep standings order.
func PowerRankings(season *models.Season, standings []models.StandingRow, games []*models.Game) []models.PowerRankingRow {
	recent := make(map[string][]outcome)
	for _, g := range countedGames(season, games) {
		for _, id := range []string{g.HomeClubID, g.AwayClubID} {
			recent[id] = append(recent[id], outcomeFor(g, id))
		}
	}

	rows := make([]models.PowerRankingRow, 0, len(standings))
	for _, s := range standings {
		row := models.PowerRankingRow{
			ClubID:    s.ClubID,
			ClubName:  s.ClubName,
			PointsPct: s.PointsPct,
			Form:      form(recent[s.ClubID]),
			Record:    fmt.Sprintf("%d-%d-%d", s.W, s.L, s.OTL),
		}
		if s.GP > 0 {
			row.GoalDiffPerGame = round3(float64(s.Diff) / float64(s.GP))
		}
		gd := math.Max(-maxGoalDiffPerGame, math.Min(maxGoalDiffPerGame, row.GoalDiffPerGame)) / maxGoalDiffPerGame
		row.Score = round3(weightPointsPct*row.PointsPct + weightForm*row.Form + weightGoalDiff*gd)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func form(h []outcome) float64 {
	if len(h) > formGames {
		h = h[len(h)-formGames:]
	}
	if len(h) == 0 {
		return 0
	}
	var total float64
	for _, o := range h {
		switch o {
		case outcomeWin:
			total++
		case outcomeOTLoss:
			total += 0.5
		}
	}
	return round3(total / float64(len(h)))
}
