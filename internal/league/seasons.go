// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package league

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/rinkside/internal/events"
	"github.com/tomtom215/rinkside/internal/models"
)

// seasonCachePrefix prefixes every season view key.
const seasonCachePrefix = "season:"

// SeasonCacheKey is the prefix of every cached view derived from a season.
// Invalidating it drops them all.
func SeasonCacheKey(seasonID string) string {
	return seasonCachePrefix + seasonID + ":"
}

// ListSeasons returns seasons, newest number first.
func (s *Service) ListSeasons(ctx context.Context, status string) ([]*models.Season, error) {
	seasons, err := s.store.Seasons.List(ctx, func(se *models.Season) bool {
		return status == "" || se.Status == status
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(seasons, func(i, j int) bool {
		if seasons[i].Number != seasons[j].Number {
			return seasons[i].Number > seasons[j].Number
		}
		return seasons[i].Name < seasons[j].Name
	})
	return seasons, nil
}

// GetSeason returns a season by ID.
func (s *Service) GetSeason(ctx context.Context, id string) (*models.Season, error) {
	return s.store.Seasons.Get(ctx, id)
}

func (s *Service) validateSeason(ctx context.Context, se *models.Season) error {
	se.Name = strings.TrimSpace(se.Name)
	if se.Name == "" {
		return invalidf("season name is required")
	}
	switch se.Status {
	case "":
		se.Status = models.SeasonUpcoming
	case models.SeasonUpcoming, models.SeasonActive, models.SeasonCompleted:
	default:
		return invalidf("status %q is not one of upcoming active completed", se.Status)
	}
	if se.StartsAt != nil && se.EndsAt != nil && se.EndsAt.Before(*se.StartsAt) {
		return invalidf("ends_at is before starts_at")
	}
	if se.Points.Win < 0 || se.Points.OTL < 0 || se.Points.Loss < 0 {
		return invalidf("points must not be negative")
	}
	seen := make(map[string]bool, len(se.ClubIDs))
	for _, id := range se.ClubIDs {
		if seen[id] {
			return invalidf("club %s listed twice", id)
		}
		seen[id] = true
		if err := s.mustExist(ctx, "club", id, s.clubExists); err != nil {
			return err
		}
	}
	if se.ClubIDs == nil {
		se.ClubIDs = []string{}
	}
	return nil
}

// CreateSeason stores a new season. Admin only.
func (s *Service) CreateSeason(ctx context.Context, actor Actor, se *models.Season) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.validateSeason(ctx, se); err != nil {
		return err
	}
	se.ID = ""
	if err := s.store.Seasons.Insert(ctx, se); err != nil {
		return err
	}
	s.audit(ctx, actor, "create", "seasons", se.ID, map[string]interface{}{"name": se.Name})
	return nil
}

// UpdateSeason replaces a season. A club with games this season cannot be removed.
func (s *Service) UpdateSeason(ctx context.Context, actor Actor, se *models.Season) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	old, err := s.store.Seasons.Get(ctx, se.ID)
	if err != nil {
		return err
	}
	if err := s.validateSeason(ctx, se); err != nil {
		return err
	}
	for _, id := range old.ClubIDs {
		if se.HasClub(id) {
			continue
		}
		used, err := s.store.Games.Exists(ctx, func(g *models.Game) bool {
			return g.SeasonID == se.ID && g.Involves(id)
		})
		if err != nil {
			return err
		}
		if used {
			return referencedf("club %s has games in season %s", id, se.ID)
		}
	}
	if err := s.store.Seasons.Replace(ctx, se); err != nil {
		return err
	}
	s.audit(ctx, actor, "update", "seasons", se.ID, nil)
	s.publish(ctx, events.TopicSeasonUpdated, se.ID, se.ID, se)
	return nil
}

// DeleteSeason removes a season with no games, playoffs or rankings.
func (s *Service) DeleteSeason(ctx context.Context, actor Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.store.Seasons.Get(ctx, id); err != nil {
		return err
	}
	if used, err := s.store.Games.Exists(ctx, func(g *models.Game) bool { return g.SeasonID == id }); err != nil {
		return err
	} else if used {
		return referencedf("season %s has games", id)
	}
	if used, err := s.store.Playoffs.Exists(ctx, func(p *models.Playoff) bool { return p.SeasonID == id }); err != nil {
		return err
	} else if used {
		return referencedf("season %s has a playoff", id)
	}
	if used, err := s.store.Rankings.Exists(ctx, func(r *models.Ranking) bool { return r.SeasonID == id }); err != nil {
		return err
	} else if used {
		return referencedf("season %s has rankings", id)
	}
	if err := s.store.Seasons.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, "delete", "seasons", id, nil)
	s.publish(ctx, events.TopicSeasonUpdated, id, id, nil)
	return nil
}

func (s *Service) seasonGames(ctx context.Context, seasonID string) ([]*models.Game, error) {
	return s.store.Games.List(ctx, func(g *models.Game) bool { return g.SeasonID == seasonID })
}

// cached returns the season view stored under key, computing and storing it
// on a miss.
func cached[T any](s *Service, seasonID, key string, compute func() (T, error)) (T, error) {
	if v, ok := s.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	gen := s.views.current(seasonID)
	v, err := compute()
	if err != nil {
		return v, err
	}
	s.storeView(seasonID, gen, key, v)
	return v, nil
}

// Standings returns the season table.
func (s *Service) Standings(ctx context.Context, seasonID string) ([]models.StandingRow, error) {
	return cached(s, seasonID, SeasonCacheKey(seasonID)+"standings", func() ([]models.StandingRow, error) {
		se, err := s.store.Seasons.Get(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		clubs, err := s.clubMap(ctx)
		if err != nil {
			return nil, err
		}
		games, err := s.seasonGames(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return Standings(se, clubs, games, se.Rules(s.cfg.Points)), nil
	})
}

// SeasonStats aggregates skater and goalie lines for a season.
func (s *Service) SeasonStats(ctx context.Context, f StatsFilter) ([]models.PlayerSeasonStats, []models.GoalieSeasonStats, error) {
	type lines struct {
		skaters []models.PlayerSeasonStats
		goalies []models.GoalieSeasonStats
	}
	if f.Scope != ScopeAll && f.Scope != ScopeRegular && f.Scope != ScopePlayoffs {
		return nil, nil, invalidf("scope %q is not one of regular playoffs", f.Scope)
	}
	key := fmt.Sprintf("%sstats:%s:%s:%s", SeasonCacheKey(f.SeasonID), f.ClubID, f.PlayerID, f.Scope)
	v, err := cached(s, f.SeasonID, key, func() (lines, error) {
		if _, err := s.store.Seasons.Get(ctx, f.SeasonID); err != nil {
			return lines{}, err
		}
		games, err := s.seasonGames(ctx, f.SeasonID)
		if err != nil {
			return lines{}, err
		}
		players, err := s.playerMap(ctx)
		if err != nil {
			return lines{}, err
		}
		sk, gk := AggregateStats(games, players, f)
		return lines{skaters: sk, goalies: gk}, nil
	})
	return v.skaters, v.goalies, err
}

// SeasonLeaders returns the category leaders for a season.
func (s *Service) SeasonLeaders(ctx context.Context, seasonID, category, scope string, limit, minGames int) ([]models.LeaderRow, error) {
	if !IsValidCategory(category) {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalid, ErrUnknownCategory, category)
	}
	key := fmt.Sprintf("%sleaders:%s:%s:%d:%d", SeasonCacheKey(seasonID), category, scope, limit, minGames)
	return cached(s, seasonID, key, func() ([]models.LeaderRow, error) {
		skaters, goalies, err := s.SeasonStats(ctx, StatsFilter{SeasonID: seasonID, Scope: scope})
		if err != nil {
			return nil, err
		}
		return Leaders(skaters, goalies, category, limit, minGames)
	})
}

// PowerRankings scores the clubs of a season.
func (s *Service) PowerRankings(ctx context.Context, seasonID string) ([]models.PowerRankingRow, error) {
	return cached(s, seasonID, SeasonCacheKey(seasonID)+"power", func() ([]models.PowerRankingRow, error) {
		standings, err := s.Standings(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		se, err := s.store.Seasons.Get(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		games, err := s.seasonGames(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return PowerRankings(se, standings, games), nil
	})
}
