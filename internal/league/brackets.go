// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package league

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/rinkside/internal/events"
	"github.com/tomtom215/rinkside/internal/models"
	"github.com/tomtom215/rinkside/internal/playoffs"
	"github.com/tomtom215/rinkside/internal/store"
)

// NewPlayoff describes a bracket to create. When Seeds is empty the top Teams
// clubs of the season standings are seeded (all clubs when Teams is zero).
// SeriesLengths defaults to the league default series length.
type NewPlayoff struct {
	SeasonID      string
	Name          string
	Seeds         []string
	Teams         int
	SeriesLengths []int
}

// ListPlayoffs returns playoffs, optionally for one season.
func (s *Service) ListPlayoffs(ctx context.Context, seasonID string) ([]*models.Playoff, error) {
	list, err := s.store.Playoffs.List(ctx, func(p *models.Playoff) bool {
		return seasonID == "" || p.SeasonID == seasonID
	})
	if err != nil {
		return nil, err
	}
	sortNewest(list, func(p *models.Playoff) time.Time { return p.CreatedAt })
	return list, nil
}

// GetPlayoff returns a playoff by ID.
func (s *Service) GetPlayoff(ctx context.Context, id string) (*models.Playoff, error) {
	return s.store.Playoffs.Get(ctx, id)
}

// seedsFor validates explicit seeds against the season, or derives them
// from the standings.
func (s *Service) seedsFor(ctx context.Context, se *models.Season, seeds []string, teams int) ([]string, error) {
	if len(seeds) > 0 {
		for _, id := range seeds {
			if !se.HasClub(id) {
				return nil, invalidf("club %s is not in season %s", id, se.Name)
			}
		}
		return seeds, nil
	}
	standings, err := s.Standings(ctx, se.ID)
	if err != nil {
		return nil, err
	}
	if teams <= 0 || teams > len(standings) {
		teams = len(standings)
	}
	out := make([]string, 0, teams)
	for _, row := range standings[:teams] {
		out = append(out, row.ClubID)
	}
	return out, nil
}

// CreatePlayoff builds and stores a bracket. Admin only.
func (s *Service) CreatePlayoff(ctx context.Context, actor Actor, in NewPlayoff) (*models.Playoff, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	se, err := s.store.Seasons.Get(ctx, in.SeasonID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, invalidf("season %s does not exist", in.SeasonID)
	}
	if err != nil {
		return nil, err
	}
	seeds, err := s.seedsFor(ctx, se, in.Seeds, in.Teams)
	if err != nil {
		return nil, err
	}
	lengths := in.SeriesLengths
	if len(lengths) == 0 {
		lengths = []int{s.cfg.DefaultSeriesLength}
	}

	p, err := playoffs.New(seeds, lengths)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	p.SeasonID = se.ID
	p.Name = strings.TrimSpace(in.Name)
	if p.Name == "" {
		p.Name = se.Name + " Playoffs"
	}
	if err := s.store.Playoffs.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.audit(ctx, actor, "create", "playoffs", p.ID, map[string]interface{}{"season_id": se.ID, "teams": len(seeds)})
	s.publish(ctx, events.TopicPlayoffUpdated, p.SeasonID, p.ID, p)
	return p, nil
}

// ReseedPlayoff rebuilds a bracket that has no recorded games.
func (s *Service) ReseedPlayoff(ctx context.Context, actor Actor, id string, seeds []string) (*models.Playoff, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	p, err := s.store.Playoffs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	se, err := s.store.Seasons.Get(ctx, p.SeasonID)
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return nil, invalidf("seeds are required")
	}
	if seeds, err = s.seedsFor(ctx, se, seeds, 0); err != nil {
		return nil, err
	}
	p, err = s.store.Playoffs.Update(ctx, id, func(cur *models.Playoff) error {
		if err := playoffs.Reseed(cur, seeds); err != nil {
			return bracketErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.audit(ctx, actor, "reseed", "playoffs", p.ID, map[string]interface{}{"seeds": seeds})
	s.publish(ctx, events.TopicPlayoffUpdated, p.SeasonID, p.ID, p)
	return p, nil
}

// RecordSeriesGame credits a series win for a game with no Game document.
func (s *Service) RecordSeriesGame(ctx context.Context, actor Actor, playoffID, seriesID, winnerClubID, gameID string) (*models.Playoff, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if gameID == "" {
		gameID = uuid.New().String()
	}
	p, err := s.store.Playoffs.Update(ctx, playoffID, func(cur *models.Playoff) error {
		if err := playoffs.RecordGame(cur, seriesID, winnerClubID, gameID); err != nil {
			return bracketErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.audit(ctx, actor, "record_series_game", "playoffs", p.ID, map[string]interface{}{
		"series_id": seriesID, "winner_club_id": winnerClubID, "game_id": gameID,
	})
	s.publish(ctx, events.TopicPlayoffUpdated, p.SeasonID, p.ID, p)
	return p, nil
}

// UndoSeriesGame removes a recorded series game. Games backed by a Game
// document must be corrected or deleted through the game instead.
func (s *Service) UndoSeriesGame(ctx context.Context, actor Actor, playoffID, seriesID, gameID string) (*models.Playoff, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	var p *models.Playoff
	err := s.store.DB.Update(ctx, func(tx *store.Tx) error {
		cur, err := s.store.Playoffs.GetTx(tx, playoffID)
		if err != nil {
			return err
		}
		if _, err := s.store.Games.GetTx(tx, gameID); err == nil {
			return invalidf("game %s is a recorded game; delete or correct it instead", gameID)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if err := playoffs.UndoGame(cur, seriesID, gameID); err != nil {
			return bracketErr(err)
		}
		if err := s.store.Playoffs.ReplaceTx(tx, cur); err != nil {
			return err
		}
		p = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.audit(ctx, actor, "undo_series_game", "playoffs", p.ID, map[string]interface{}{"series_id": seriesID, "game_id": gameID})
	s.publish(ctx, events.TopicPlayoffUpdated, p.SeasonID, p.ID, p)
	return p, nil
}

// DeletePlayoff removes a playoff that no game references.
func (s *Service) DeletePlayoff(ctx context.Context, actor Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	p, err := s.store.Playoffs.Get(ctx, id)
	if err != nil {
		return err
	}
	if used, err := s.store.Games.Exists(ctx, func(g *models.Game) bool { return g.PlayoffID == id }); err != nil {
		return err
	} else if used {
		return referencedf("playoff %s has games", id)
	}
	if err := s.store.Playoffs.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, "delete", "playoffs", id, nil)
	s.publish(ctx, events.TopicPlayoffUpdated, p.SeasonID, id, nil)
	return nil
}
