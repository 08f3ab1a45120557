// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package league

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/tomtom215/rinkside/internal/events"
	"github.com/tomtom215/rinkside/internal/models"
	"github.com/tomtom215/rinkside/internal/store"
)

// PlayerFilter narrows ListPlayers. Empty fields match everything.
type PlayerFilter struct {
	ClubID    string
	Position  string
	FreeAgent *bool
	Active    *bool
	Query     string
}

// ListPlayers returns players sorted by gamertag.
func (s *Service) ListPlayers(ctx context.Context, f PlayerFilter) ([]*models.Player, error) {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	players, err := s.store.Players.List(ctx, func(p *models.Player) bool {
		switch {
		case f.ClubID != "" && p.ClubID != f.ClubID:
			return false
		case f.Position != "" && p.Position != f.Position:
			return false
		case f.FreeAgent != nil && p.IsFreeAgent() != *f.FreeAgent:
			return false
		case f.Active != nil && p.Active != *f.Active:
			return false
		case q != "" && !strings.Contains(strings.ToLower(p.Gamertag), q) && !strings.Contains(strings.ToLower(p.DisplayName), q):
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(players, func(i, j int) bool {
		return lessTag(players[i].Gamertag, players[i].ID, players[j].Gamertag, players[j].ID)
	})
	return players, nil
}

// GetPlayer returns a player by ID.
func (s *Service) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	return s.store.Players.Get(ctx, id)
}

func (s *Service) playerMap(ctx context.Context) (map[string]*models.Player, error) {
	players, err := s.store.Players.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	m := make(map[string]*models.Player, len(players))
	for _, p := range players {
		m[p.ID] = p
	}
	return m, nil
}

func (s *Service) validatePlayer(ctx context.Context, p *models.Player) error {
	p.Gamertag = strings.TrimSpace(p.Gamertag)
	if p.Gamertag == "" {
		return invalidf("gamertag is required")
	}
	if !models.IsValidPosition(p.Position) {
		return invalidf("position %q is not one of %s", p.Position, strings.Join(models.ValidPositions, " "))
	}
	if p.Number < 0 || p.Number > 99 {
		return invalidf("number must be between 0 and 99")
	}
	if p.ClubID != "" {
		if err := s.mustExist(ctx, "club", p.ClubID, s.clubExists); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) clubExists(ctx context.Context, id string) error {
	_, err := s.store.Clubs.Get(ctx, id)
	return err
}

// mustExist turns a missing reference into a validation error.
func (s *Service) mustExist(ctx context.Context, kind, id string, get func(context.Context, string) error) error {
	err := get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return invalidf("%s %s does not exist", kind, id)
	}
	return err
}

// CreatePlayer stores a new player. A manager may only add players to their club.
func (s *Service) CreatePlayer(ctx context.Context, actor Actor, p *models.Player) error {
	if !actor.Manages(p.ClubID) {
		return ErrForbidden
	}
	if err := s.validatePlayer(ctx, p); err != nil {
		return err
	}
	p.ID = ""
	if err := s.store.Players.Insert(ctx, p); err != nil {
		return err
	}
	s.audit(ctx, actor, "create", "players", p.ID, map[string]interface{}{"gamertag": p.Gamertag, "club_id": p.ClubID})
	return nil
}

// UpdatePlayer replaces a player. A manager may edit players on their roster,
// release them to free agency, and sign free agents.
func (s *Service) UpdatePlayer(ctx context.Context, actor Actor, p *models.Player) error {
	old, err := s.store.Players.Get(ctx, p.ID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		ownsOld := old.IsFreeAgent() || actor.Manages(old.ClubID)
		ownsNew := p.IsFreeAgent() || actor.Manages(p.ClubID)
		if !ownsOld || !ownsNew || (old.IsFreeAgent() && p.IsFreeAgent()) {
			return ErrForbidden
		}
	}
	if err := s.validatePlayer(ctx, p); err != nil {
		return err
	}
	if err := s.store.Players.Replace(ctx, p); err != nil {
		return err
	}
	details := map[string]interface{}{}
	if old.ClubID != p.ClubID {
		details["from_club_id"] = old.ClubID
		details["to_club_id"] = p.ClubID
	}
	s.audit(ctx, actor, "update", "players", p.ID, details)
	if old.Gamertag != p.Gamertag {
		s.publish(ctx, events.TopicSeasonUpdated, "", p.ID, nil)
	}
	return nil
}

// DeletePlayer removes a player. Recorded game stats keep the player ID.
func (s *Service) DeletePlayer(ctx context.Context, actor Actor, id string) error {
	p, err := s.store.Players.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Manages(p.ClubID) {
		return ErrForbidden
	}
	if err := s.store.Players.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, "delete", "players", id, map[string]interface{}{"gamertag": p.Gamertag})
	// Stat views carry the gamertag of every player with lines.
	s.invalidate("")
	return nil
}

// PlayerStats aggregates one player's lines, optionally within a season.
func (s *Service) PlayerStats(ctx context.Context, playerID, seasonID, scope string) (*models.PlayerSeasonStats, *models.GoalieSeasonStats, error) {
	p, err := s.store.Players.Get(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}
	games, err := s.store.Games.List(ctx, func(g *models.Game) bool { return g.IsFinal() })
	if err != nil {
		return nil, nil, err
	}
	skaters, goalies := AggregateStats(games, map[string]*models.Player{p.ID: p}, StatsFilter{
		SeasonID: seasonID,
		PlayerID: playerID,
		Scope:    scope,
	})
	var skater *models.PlayerSeasonStats
	var goalie *models.GoalieSeasonStats
	if len(skaters) > 0 {
		skater = &skaters[0]
	}
	if len(goalies) > 0 {
		goalie = &goalies[0]
	}
	return skater, goalie, nil
}

// ListManagers returns managers, optionally for one club.
func (s *Service) ListManagers(ctx context.Context, clubID string) ([]*models.Manager, error) {
	managers, err := s.store.Managers.List(ctx, func(m *models.Manager) bool {
		return clubID == "" || m.ClubID == clubID
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(managers, func(i, j int) bool {
		if managers[i].ClubID != managers[j].ClubID {
			return managers[i].ClubID < managers[j].ClubID
		}
		return titleOrder(managers[i].Title) < titleOrder(managers[j].Title)
	})
	return managers, nil
}

func titleOrder(t string) int {
	switch t {
	case models.TitleGM:
		return 0
	case models.TitleAGM:
		return 1
	}
	return 2
}

// GetManager returns a manager by ID.
func (s *Service) GetManager(ctx context.Context, id string) (*models.Manager, error) {
	return s.store.Managers.Get(ctx, id)
}

func (s *Service) validateManager(ctx context.Context, m *models.Manager) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return invalidf("manager name is required")
	}
	switch m.Title {
	case models.TitleGM, models.TitleAGM, models.TitleCoach:
	default:
		return invalidf("title %q is not one of gm agm coach", m.Title)
	}
	if m.ClubID == "" {
		return invalidf("club_id is required")
	}
	if err := s.mustExist(ctx, "club", m.ClubID, s.clubExists); err != nil {
		return err
	}
	if m.UserID != "" {
		if err := s.mustExist(ctx, "user", m.UserID, func(ctx context.Context, id string) error {
			_, err := s.store.Users.Get(ctx, id)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

// CreateManager adds a manager to a club.
func (s *Service) CreateManager(ctx context.Context, actor Actor, m *models.Manager) error {
	if !actor.Manages(m.ClubID) {
		return ErrForbidden
	}
	if err := s.validateManager(ctx, m); err != nil {
		return err
	}
	m.ID = ""
	if err := s.store.Managers.Insert(ctx, m); err != nil {
		return err
	}
	s.audit(ctx, actor, "create", "managers", m.ID, map[string]interface{}{"club_id": m.ClubID})
	return nil
}

// UpdateManager replaces a manager. Managers cannot move staff between clubs.
func (s *Service) UpdateManager(ctx context.Context, actor Actor, m *models.Manager) error {
	old, err := s.store.Managers.Get(ctx, m.ID)
	if err != nil {
		return err
	}
	if !actor.Manages(old.ClubID) || !actor.Manages(m.ClubID) {
		return ErrForbidden
	}
	if err := s.validateManager(ctx, m); err != nil {
		return err
	}
	if err := s.store.Managers.Replace(ctx, m); err != nil {
		return err
	}
	s.audit(ctx, actor, "update", "managers", m.ID, nil)
	return nil
}

// DeleteManager removes a manager.
func (s *Service) DeleteManager(ctx context.Context, actor Actor, id string) error {
	m, err := s.store.Managers.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Manages(m.ClubID) {
		return ErrForbidden
	}
	if err := s.store.Managers.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, "delete", "managers", id, nil)
	return nil
}
