// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package league

import (
	"context"
	"sort"
	"strings"

	"github.com/tomtom215/rinkside/internal/events"
	"github.com/tomtom215/rinkside/internal/models"
)

// ClubFilter narrows ListClubs.
type ClubFilter struct {
	Active *bool
	Query  string
}

// ListClubs returns clubs sorted by name.
func (s *Service) ListClubs(ctx context.Context, f ClubFilter) ([]*models.Club, error) {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	clubs, err := s.store.Clubs.List(ctx, func(c *models.Club) bool {
		if f.Active != nil && c.Active != *f.Active {
			return false
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(strings.ToLower(c.ShortName), q) {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(clubs, func(i, j int) bool {
		return strings.ToLower(clubs[i].Name) < strings.ToLower(clubs[j].Name)
	})
	return clubs, nil
}

// GetClub returns a club by ID.
func (s *Service) GetClub(ctx context.Context, id string) (*models.Club, error) {
	return s.store.Clubs.Get(ctx, id)
}

func (s *Service) clubMap(ctx context.Context) (map[string]*models.Club, error) {
	clubs, err := s.store.Clubs.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	m := make(map[string]*models.Club, len(clubs))
	for _, c := range clubs {
		m[c.ID] = c
	}
	return m, nil
}

func validateClub(c *models.Club) error {
	c.Name = strings.TrimSpace(c.Name)
	c.ShortName = strings.ToUpper(strings.TrimSpace(c.ShortName))
	if c.Name == "" {
		return invalidf("club name is required")
	}
	if n := len(c.ShortName); n < 2 || n > 5 {
		return invalidf("club short_name must be 2 to 5 characters")
	}
	return nil
}

// CreateClub stores a new club. Admin only.
func (s *Service) CreateClub(ctx context.Context, actor Actor, c *models.Club) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := validateClub(c); err != nil {
		return err
	}
	c.ID = ""
	if err := s.store.Clubs.Insert(ctx, c); err != nil {
		return err
	}
	s.audit(ctx, actor, "create", "clubs", c.ID, map[string]interface{}{"name": c.Name})
	return nil
}

// UpdateClub replaces a club. Managers may update only their own club.
func (s *Service) UpdateClub(ctx context.Context, actor Actor, c *models.Club) error {
	if !actor.Manages(c.ID) {
		return ErrForbidden
	}
	if _, err := s.store.Clubs.Get(ctx, c.ID); err != nil {
		return err
	}
	if err := validateClub(c); err != nil {
		return err
	}
	if err := s.store.Clubs.Replace(ctx, c); err != nil {
		return err
	}
	s.audit(ctx, actor, "update", "clubs", c.ID, nil)
	// Names appear in every derived view.
	s.publish(ctx, events.TopicSeasonUpdated, "", c.ID, nil)
	return nil
}

// SetClubLogo points the club logo at url.
func (s *Service) SetClubLogo(ctx context.Context, actor Actor, clubID, url string) (*models.Club, error) {
	if !actor.Manages(clubID) {
		return nil, ErrForbidden
	}
	c, err := s.store.Clubs.Get(ctx, clubID)
	if err != nil {
		return nil, err
	}
	c.LogoURL = url
	if err := s.store.Clubs.Replace(ctx, c); err != nil {
		return nil, err
	}
	s.audit(ctx, actor, "logo", "clubs", c.ID, map[string]interface{}{"logo_url": url})
	return c, nil
}

// DeleteClub removes a club that no game, season, player or manager references.
func (s *Service) DeleteClub(ctx context.Context, actor Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.store.Clubs.Get(ctx, id); err != nil {
		return err
	}

	if used, err := s.store.Games.Exists(ctx, func(g *models.Game) bool { return g.Involves(id) }); err != nil {
		return err
	} else if used {
		return referencedf("club %s has games", id)
	}
	if used, err := s.store.Seasons.Exists(ctx, func(se *models.Season) bool { return se.HasClub(id) }); err != nil {
		return err
	} else if used {
		return referencedf("club %s is in a season", id)
	}
	if used, err := s.store.Players.Exists(ctx, func(p *models.Player) bool { return p.ClubID == id }); err != nil {
		return err
	} else if used {
		return referencedf("club %s has players", id)
	}
	if used, err := s.store.Managers.Exists(ctx, func(m *models.Manager) bool { return m.ClubID == id }); err != nil {
		return err
	} else if used {
		return referencedf("club %s has managers", id)
	}

	if err := s.store.Clubs.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, "delete", "clubs", id, nil)
	return nil
}
