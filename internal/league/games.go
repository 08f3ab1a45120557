// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package league

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/rinkside/internal/events"
	"github.com/tomtom215/rinkside/internal/metrics"
	"github.com/tomtom215/rinkside/internal/models"
	"github.com/tomtom215/rinkside/internal/playoffs"
	"github.com/tomtom215/rinkside/internal/store"
)

// GameFilter narrows ListGames. Empty fields match everything.
type GameFilter struct {
	SeasonID  string
	ClubID    string
	Status    string
	PlayoffID string
	// Playoff selects playoff (true) or regular-season (false) games.
	Playoff *bool
}

// Result is a final score with optional per-player lines.
type Result struct {
	HomeScore   int
	AwayScore   int
	Overtime    bool
	PlayedAt    *time.Time
	PlayerStats []models.PlayerGameStats
}

// ListGames returns games ordered by time.
func (s *Service) ListGames(ctx context.Context, f GameFilter) ([]*models.Game, error) {
	games, err := s.store.Games.List(ctx, func(g *models.Game) bool {
		switch {
		case f.SeasonID != "" && g.SeasonID != f.SeasonID:
			return false
		case f.ClubID != "" && !g.Involves(f.ClubID):
			return false
		case f.Status != "" && g.Status != f.Status:
			return false
		case f.PlayoffID != "" && g.PlayoffID != f.PlayoffID:
			return false
		case f.Playoff != nil && g.IsPlayoff() != *f.Playoff:
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sortByTime(games)
	return games, nil
}

// GetGame returns a game by ID.
func (s *Service) GetGame(ctx context.Context, id string) (*models.Game, error) {
	return s.store.Games.Get(ctx, id)
}

// validateSchedule checks the season, clubs and playoff link of g.
func (s *Service) validateSchedule(ctx context.Context, g *models.Game) error {
	if g.HomeClubID == "" || g.AwayClubID == "" {
		return invalidf("home_club_id and away_club_id are required")
	}
	if g.HomeClubID == g.AwayClubID {
		return invalidf("a club cannot play itself")
	}
	se, err := s.store.Seasons.Get(ctx, g.SeasonID)
	if errors.Is(err, store.ErrNotFound) {
		return invalidf("season %s does not exist", g.SeasonID)
	}
	if err != nil {
		return err
	}
	for _, id := range []string{g.HomeClubID, g.AwayClubID} {
		if err := s.mustExist(ctx, "club", id, s.clubExists); err != nil {
			return err
		}
		if !se.HasClub(id) {
			return invalidf("club %s is not in season %s", id, se.Name)
		}
	}
	if g.ScheduledAt.IsZero() {
		return invalidf("scheduled_at is required")
	}

	if g.PlayoffID == "" {
		g.SeriesID = ""
		return nil
	}
	p, err := s.store.Playoffs.Get(ctx, g.PlayoffID)
	if errors.Is(err, store.ErrNotFound) {
		return invalidf("playoff %s does not exist", g.PlayoffID)
	}
	if err != nil {
		return err
	}
	if p.SeasonID != g.SeasonID {
		return invalidf("playoff %s belongs to another season", p.ID)
	}
	if g.SeriesID == "" {
		series := playoffs.SeriesFor(p, g.HomeClubID, g.AwayClubID)
		if series == nil {
			return invalidf("no open series between %s and %s", g.HomeClubID, g.AwayClubID)
		}
		g.SeriesID = series.ID
		return nil
	}
	series := p.FindSeries(g.SeriesID)
	if series == nil {
		return invalidf("series %s does not exist", g.SeriesID)
	}
	if !series.Has(g.HomeClubID) || !series.Has(g.AwayClubID) {
		return invalidf("series %s is not between these clubs", g.SeriesID)
	}
	return nil
}

// CreateGame schedules a game. Admin only.
func (s *Service) CreateGame(ctx context.Context, actor Actor, g *models.Game) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.validateSchedule(ctx, g); err != nil {
		return err
	}
	g.ID = ""
	g.Status = models.GameScheduled
	g.HomeScore, g.AwayScore, g.Overtime = 0, 0, false
	g.PlayedAt = nil
	g.PlayerStats = nil
	if err := s.store.Games.Insert(ctx, g); err != nil {
		return err
	}
	s.audit(ctx, actor, "create", "games", g.ID, map[string]interface{}{"season_id": g.SeasonID})
	return nil
}

// UpdateGame changes the schedule of a game. Results are kept; a final game
// cannot change season, clubs or playoff link.
func (s *Service) UpdateGame(ctx context.Context, actor Actor, g *models.Game) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	old, err := s.store.Games.Get(ctx, g.ID)
	if err != nil {
		return err
	}
	if err := checkScheduleChange(old, g); err != nil {
		return err
	}
	if old.IsFinal() {
		g.SeriesID = old.SeriesID
	}
	if err := s.validateSchedule(ctx, g); err != nil {
		return err
	}

	// Only schedule fields are taken from g, so a result recorded while this
	// runs is kept.
	updated, err := s.store.Games.Update(ctx, g.ID, func(cur *models.Game) error {
		if err := checkScheduleChange(cur, g); err != nil {
			return err
		}
		if cur.IsFinal() != old.IsFinal() {
			return fmt.Errorf("%w: game %s was recorded while it was being rescheduled", store.ErrConflict, g.ID)
		}
		cur.SeasonID = g.SeasonID
		cur.HomeClubID, cur.AwayClubID = g.HomeClubID, g.AwayClubID
		cur.ScheduledAt = g.ScheduledAt
		cur.PlayoffID, cur.SeriesID = g.PlayoffID, g.SeriesID
		return nil
	})
	if err != nil {
		return err
	}
	*g = *updated
	s.audit(ctx, actor, "update", "games", g.ID, nil)
	if g.IsFinal() {
		s.publish(ctx, events.TopicSeasonUpdated, g.SeasonID, g.ID, nil)
	}
	return nil
}

func checkScheduleChange(cur, next *models.Game) error {
	if cur.IsFinal() && (next.SeasonID != cur.SeasonID || next.HomeClubID != cur.HomeClubID ||
		next.AwayClubID != cur.AwayClubID || next.PlayoffID != cur.PlayoffID) {
		return invalidf("a final game cannot change season, clubs or playoff")
	}
	return nil
}

// DeleteGame removes a game. A final playoff game is first taken back out of
// its series, which fails once later rounds depend on it. The game and its
// bracket change commit together.
func (s *Service) DeleteGame(ctx context.Context, actor Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	var g *models.Game
	var bracket *models.Playoff
	err := s.store.DB.Update(ctx, func(tx *store.Tx) error {
		cur, err := s.store.Games.GetTx(tx, id)
		if err != nil {
			return err
		}
		g, bracket = cur, nil
		if !cur.IsFinal() || !cur.IsPlayoff() {
			return s.store.Games.DeleteTx(tx, id)
		}

		p, err := s.store.Playoffs.GetTx(tx, cur.PlayoffID)
		switch {
		case errors.Is(err, store.ErrNotFound):
		case err != nil:
			return err
		default:
			if series := p.FindSeries(cur.SeriesID); series != nil && series.HasGame(cur.ID) {
				if err := playoffs.UndoGame(p, cur.SeriesID, cur.ID); err != nil {
					return bracketErr(err)
				}
				if err := s.store.Playoffs.ReplaceTx(tx, p); err != nil {
					return err
				}
				bracket = p
			}
		}
		return s.store.Games.DeleteTx(tx, id)
	})
	if err != nil {
		return err
	}

	if bracket != nil {
		s.publish(ctx, events.TopicPlayoffUpdated, bracket.SeasonID, bracket.ID, bracket)
	}
	s.audit(ctx, actor, "delete", "games", id, nil)
	s.publish(ctx, events.TopicGameDeleted, g.SeasonID, g.ID, nil)
	return nil
}

// validateResult checks r against g. Player lines must belong to one of the
// two clubs, list each player once and never credit a club with more goals
// than it scored.
func (s *Service) validateResult(ctx context.Context, g *models.Game, r *Result) error {
	if r.HomeScore < 0 || r.AwayScore < 0 {
		return invalidf("scores must not be negative")
	}
	if r.HomeScore == r.AwayScore {
		return invalidf("games cannot end in a tie")
	}

	players, err := s.playerMap(ctx)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(r.PlayerStats))
	goals := map[string]int{}
	for i := range r.PlayerStats {
		line := &r.PlayerStats[i]
		if line.PlayerID == "" {
			return invalidf("player_stats[%d]: player_id is required", i)
		}
		if seen[line.PlayerID] {
			return invalidf("player %s is listed more than once", line.PlayerID)
		}
		seen[line.PlayerID] = true

		if line.ClubID != g.HomeClubID && line.ClubID != g.AwayClubID {
			return invalidf("player %s: club %s did not play in this game", line.PlayerID, line.ClubID)
		}
		p, ok := players[line.PlayerID]
		if !ok {
			return invalidf("player %s does not exist", line.PlayerID)
		}
		if line.Position == "" {
			line.Position = p.Position
		}
		if !models.IsValidPosition(line.Position) {
			return invalidf("player %s: invalid position %q", line.PlayerID, line.Position)
		}
		if line.Goals < 0 || line.Assists < 0 || line.Shots < 0 || line.Hits < 0 || line.PIM < 0 ||
			line.Saves < 0 || line.ShotsAgainst < 0 || line.GoalsAgainst < 0 {
			return invalidf("player %s: counting stats must not be negative", line.PlayerID)
		}
		if line.IsGoalie() && line.Saves > line.ShotsAgainst {
			return invalidf("player %s: saves exceed shots against", line.PlayerID)
		}
		goals[line.ClubID] += line.Goals
	}

	if goals[g.HomeClubID] > r.HomeScore {
		return invalidf("home players scored %d goals but the score is %d", goals[g.HomeClubID], r.HomeScore)
	}
	if goals[g.AwayClubID] > r.AwayScore {
		return invalidf("away players scored %d goals but the score is %d", goals[g.AwayClubID], r.AwayScore)
	}
	return nil
}

// RecordResult records or corrects the final result of a game. Managers may
// only record games their club plays. A linked playoff series is advanced,
// and a corrected winner is moved in the bracket when later rounds allow it.
func (s *Service) RecordResult(ctx context.Context, actor Actor, gameID string, r Result) (*models.Game, error) {
	g, err := s.store.Games.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !actor.Manages(g.HomeClubID) && !actor.Manages(g.AwayClubID) {
		return nil, ErrForbidden
	}
	if err := s.validateResult(ctx, g, &r); err != nil {
		return nil, err
	}

	// The game and its bracket are read again and written in one
	// transaction, so concurrent results in a series each count.
	var correction bool
	var bracket *models.Playoff
	err = s.store.DB.Update(ctx, func(tx *store.Tx) error {
		cur, err := s.store.Games.GetTx(tx, gameID)
		if err != nil {
			return err
		}
		if cur.HomeClubID != g.HomeClubID || cur.AwayClubID != g.AwayClubID {
			return fmt.Errorf("%w: game %s changed clubs while its result was recorded", store.ErrConflict, gameID)
		}
		correction = cur.IsFinal()
		prevWinner := cur.Winner()
		s.applyResult(cur, r)

		bracket = nil
		if cur.IsPlayoff() {
			if bracket, err = s.advanceBracket(tx, cur, correction, prevWinner); err != nil {
				return err
			}
		}
		if err := s.store.Games.ReplaceTx(tx, cur); err != nil {
			return err
		}
		if bracket != nil {
			if err := s.store.Playoffs.ReplaceTx(tx, bracket); err != nil {
				return err
			}
		}
		g = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	action := "record_result"
	if correction {
		action = "correct_result"
	}
	s.audit(ctx, actor, action, "games", g.ID, map[string]interface{}{
		"home_score": g.HomeScore,
		"away_score": g.AwayScore,
		"overtime":   g.Overtime,
	})
	metrics.RecordGameResult(g.IsPlayoff())
	s.publish(ctx, events.TopicGameRecorded, g.SeasonID, g.ID, g)
	if bracket != nil {
		s.publish(ctx, events.TopicPlayoffUpdated, bracket.SeasonID, bracket.ID, bracket)
	}
	return g, nil
}

// applyResult marks g final with r's score and stat lines.
func (s *Service) applyResult(g *models.Game, r Result) {
	g.Status = models.GameFinal
	g.HomeScore, g.AwayScore, g.Overtime = r.HomeScore, r.AwayScore, r.Overtime
	g.PlayerStats = r.PlayerStats
	if r.PlayedAt != nil {
		t := r.PlayedAt.UTC()
		g.PlayedAt = &t
	} else if g.PlayedAt == nil {
		t := s.now().UTC()
		g.PlayedAt = &t
	}
}

// advanceBracket applies g's winner to its playoff series inside tx. It
// returns nil when the bracket is unchanged.
func (s *Service) advanceBracket(tx *store.Tx, g *models.Game, correction bool, prevWinner string) (*models.Playoff, error) {
	p, err := s.store.Playoffs.GetTx(tx, g.PlayoffID)
	if err != nil {
		return nil, err
	}
	if g.SeriesID == "" {
		series := playoffs.SeriesFor(p, g.HomeClubID, g.AwayClubID)
		if series == nil {
			return nil, invalidf("no open series between %s and %s", g.HomeClubID, g.AwayClubID)
		}
		g.SeriesID = series.ID
	}
	series := p.FindSeries(g.SeriesID)
	if series == nil {
		return nil, invalidf("series %s does not exist", g.SeriesID)
	}

	winner := g.Winner()
	if correction && series.HasGame(g.ID) {
		if prevWinner == winner {
			return nil, nil
		}
		if err := playoffs.UndoGame(p, g.SeriesID, g.ID); err != nil {
			return nil, bracketErr(err)
		}
	}
	if err := playoffs.RecordGame(p, g.SeriesID, winner, g.ID); err != nil {
		return nil, bracketErr(err)
	}
	return p, nil
}

// bracketErr maps bracket rule violations onto service errors.
func bracketErr(err error) error {
	switch {
	case errors.Is(err, playoffs.ErrBracketLocked), errors.Is(err, playoffs.ErrSeriesClosed),
		errors.Is(err, playoffs.ErrDuplicateGame):
		return fmt.Errorf("%w: %w", store.ErrConflict, err)
	case errors.Is(err, playoffs.ErrSeriesNotFound), errors.Is(err, playoffs.ErrGameNotFound):
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}
	return fmt.Errorf("%w: %w", ErrInvalid, err)
}
