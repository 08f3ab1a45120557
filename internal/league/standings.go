// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package league

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/rinkside/internal/models"
)

// outcome of a single game from one club's point of view
type outcome int

const (
	outcomeWin outcome = iota
	outcomeLoss
	outcomeOTLoss
)

func (o outcome) code() string {
	switch o {
	case outcomeWin:
		return "W"
	case outcomeOTLoss:
		return "OT"
	}
	return "L"
}

// countedGames returns the final regular-season games of season whose clubs are
// both participants, oldest first.
func countedGames(season *models.Season, games []*models.Game) []*models.Game {
	out := make([]*models.Game, 0, len(games))
	for _, g := range games {
		if g.SeasonID != season.ID || !g.IsFinal() || g.IsPlayoff() {
			continue
		}
		if !season.HasClub(g.HomeClubID) || !season.HasClub(g.AwayClubID) {
			continue
		}
		if g.Winner() == "" {
			continue
		}
		out = append(out, g)
	}
	sortByTime(out)
	return out
}

func sortByTime(games []*models.Game) {
	sort.SliceStable(games, func(i, j int) bool {
		ti, tj := games[i].SortTime(), games[j].SortTime()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return games[i].ID < games[j].ID
	})
}

func outcomeFor(g *models.Game, clubID string) outcome {
	if g.Winner() == clubID {
		return outcomeWin
	}
	if g.Overtime {
		return outcomeOTLoss
	}
	return outcomeLoss
}

// Standings computes the table for season from games using rules.
// clubs supplies display names; unknown clubs fall back to their ID.
func Standings(season *models.Season, clubs map[string]*models.Club, games []*models.Game, rules models.PointsRule) []models.StandingRow {
	rows := make(map[string]*models.StandingRow, len(season.ClubIDs))
	history := make(map[string][]outcome, len(season.ClubIDs))
	for _, id := range season.ClubIDs {
		row := &models.StandingRow{ClubID: id, ClubName: id}
		if c, ok := clubs[id]; ok {
			row.ClubName = c.Name
			row.ShortName = c.ShortName
		}
		rows[id] = row
	}

	for _, g := range countedGames(season, games) {
		for _, id := range []string{g.HomeClubID, g.AwayClubID} {
			row := rows[id]
			gf, ga := g.ScoreFor(id)
			row.GP++
			row.GF += gf
			row.GA += ga

			o := outcomeFor(g, id)
			switch o {
			case outcomeWin:
				row.W++
				row.PTS += rules.Win
			case outcomeOTLoss:
				row.OTL++
				row.PTS += rules.OTL
			default:
				row.L++
				row.PTS += rules.Loss
			}
			history[id] = append(history[id], o)
		}
	}

	out := make([]models.StandingRow, 0, len(rows))
	for _, id := range season.ClubIDs {
		row := rows[id]
		row.Diff = row.GF - row.GA
		if row.GP > 0 && rules.Win > 0 {
			row.PointsPct = round3(float64(row.PTS) / float64(row.GP*rules.Win))
		}
		row.Streak = streak(history[id])
		row.Last10 = lastN(history[id], 10)
		out = append(out, *row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PTS != b.PTS {
			return a.PTS > b.PTS
		}
		if a.W != b.W {
			return a.W > b.W
		}
		if a.Diff != b.Diff {
			return a.Diff > b.Diff
		}
		if a.GF != b.GF {
			return a.GF > b.GF
		}
		return strings.ToLower(a.ClubName) < strings.ToLower(b.ClubName)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// streak is the run of identical outcomes ending at the latest game.
func streak(h []outcome) string {
	if len(h) == 0 {
		return ""
	}
	last := h[len(h)-1]
	n := 0
	for i := len(h) - 1; i >= 0 && h[i] == last; i-- {
		n++
	}
	return fmt.Sprintf("%s%d", last.code(), n)
}

// lastN formats the W-L-OT record over the latest n outcomes.
func lastN(h []outcome, n int) string {
	if len(h) > n {
		h = h[len(h)-n:]
	}
	var w, l, ot int
	for _, o := range h {
		switch o {
		case outcomeWin:
			w++
		case outcomeOTLoss:
			ot++
		default:
			l++
		}
	}
	return fmt.Sprintf("%d-%d-%d", w, l, ot)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
