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
	"time"

	"github.com/tomtom215/rinkside/internal/events"
	"github.com/tomtom215/rinkside/internal/models"
	"github.com/tomtom215/rinkside/internal/store"
)

// ListRankings returns rankings newest week first. Drafts are included only
// when drafts is true.
func (s *Service) ListRankings(ctx context.Context, seasonID string, drafts bool) ([]*models.Ranking, error) {
	list, err := s.store.Rankings.List(ctx, func(r *models.Ranking) bool {
		if seasonID != "" && r.SeasonID != seasonID {
			return false
		}
		return drafts || r.Published
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].SeasonID != list[j].SeasonID {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].Week > list[j].Week
	})
	return list, nil
}

// GetRanking returns a ranking. Drafts read as not found unless drafts is true.
func (s *Service) GetRanking(ctx context.Context, id string, drafts bool) (*models.Ranking, error) {
	r, err := s.store.Rankings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.Published && !drafts {
		return nil, store.ErrNotFound
	}
	return r, nil
}

// validateRanking requires ranks 1..N, each club once, every club in the season.
func (s *Service) validateRanking(ctx context.Context, r *models.Ranking) error {
	se, err := s.store.Seasons.Get(ctx, r.SeasonID)
	if errors.Is(err, store.ErrNotFound) {
		return invalidf("season %s does not exist", r.SeasonID)
	}
	if err != nil {
		return err
	}
	if r.Week < 1 {
		return invalidf("week must be at least 1")
	}
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return invalidf("title is required")
	}
	if len(r.Entries) == 0 {
		return invalidf("a ranking needs at least one entry")
	}

	ranks := make(map[int]bool, len(r.Entries))
	clubs := make(map[string]bool, len(r.Entries))
	for _, e := range r.Entries {
		if e.Rank < 1 || e.Rank > len(r.Entries) {
			return invalidf("rank %d is outside 1..%d", e.Rank, len(r.Entries))
		}
		if ranks[e.Rank] {
			return invalidf("rank %d is used twice", e.Rank)
		}
		ranks[e.Rank] = true
		if clubs[e.ClubID] {
			return invalidf("club %s is ranked twice", e.ClubID)
		}
		clubs[e.ClubID] = true
		if !se.HasClub(e.ClubID) {
			return invalidf("club %s is not in season %s", e.ClubID, se.Name)
		}
	}
	sort.SliceStable(r.Entries, func(i, j int) bool { return r.Entries[i].Rank < r.Entries[j].Rank })
	return nil
}

// fillPrevious sets previous_rank from the latest published ranking of an
// earlier week in the same season. Clubs absent there get 0.
func (s *Service) fillPrevious(ctx context.Context, r *models.Ranking) error {
	prior, err := s.store.Rankings.List(ctx, func(o *models.Ranking) bool {
		return o.ID != r.ID && o.SeasonID == r.SeasonID && o.Published && o.Week < r.Week
	})
	if err != nil {
		return err
	}
	var prev *models.Ranking
	for _, o := range prior {
		if prev == nil || o.Week > prev.Week {
			prev = o
		}
	}
	byClub := map[string]int{}
	if prev != nil {
		for _, e := range prev.Entries {
			byClub[e.ClubID] = e.Rank
		}
	}
	for i := range r.Entries {
		r.Entries[i].PreviousRank = byClub[r.Entries[i].ClubID]
	}
	return nil
}

func (s *Service) prepareRanking(ctx context.Context, actor Actor, r *models.Ranking, wasPublished bool) error {
	if err := s.validateRanking(ctx, r); err != nil {
		return err
	}
	if err := s.fillPrevious(ctx, r); err != nil {
		return err
	}
	if r.AuthorID == "" {
		r.AuthorID = actor.UserID
	}
	if r.Published && (!wasPublished || r.PublishedAt == nil) {
		now := s.now().UTC()
		r.PublishedAt = &now
	}
	if !r.Published {
		r.PublishedAt = nil
	}
	return nil
}

// CreateRanking stores a power-rankings post. Admin only.
func (s *Service) CreateRanking(ctx context.Context, actor Actor, r *models.Ranking) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	r.ID = ""
	if err := s.prepareRanking(ctx, actor, r, false); err != nil {
		return err
	}
	if err := s.store.Rankings.Insert(ctx, r); err != nil {
		return err
	}
	s.audit(ctx, actor, "create", "rankings", r.ID, map[string]interface{}{"season_id": r.SeasonID, "week": r.Week})
	if r.Published {
		s.publish(ctx, events.TopicRankingPublished, r.SeasonID, r.ID, r)
	}
	return nil
}

// UpdateRanking replaces a ranking. Publishing it announces it.
func (s *Service) UpdateRanking(ctx context.Context, actor Actor, r *models.Ranking) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	old, err := s.store.Rankings.Get(ctx, r.ID)
	if err != nil {
		return err
	}
	if r.PublishedAt == nil {
		r.PublishedAt = old.PublishedAt
	}
	if r.AuthorID == "" {
		r.AuthorID = old.AuthorID
	}
	if err := s.prepareRanking(ctx, actor, r, old.Published); err != nil {
		return err
	}
	if err := s.store.Rankings.Replace(ctx, r); err != nil {
		return err
	}
	s.audit(ctx, actor, "update", "rankings", r.ID, nil)
	if r.Published && !old.Published {
		s.publish(ctx, events.TopicRankingPublished, r.SeasonID, r.ID, r)
	}
	return nil
}

// DeleteRanking removes a ranking.
func (s *Service) DeleteRanking(ctx context.Context, actor Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.store.Rankings.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, "delete", "rankings", id, nil)
	return nil
}

// ListArticles returns articles newest first, optionally filtered by tag.
func (s *Service) ListArticles(ctx context.Context, tag string, drafts bool) ([]*models.Article, error) {
	list, err := s.store.Articles.List(ctx, func(a *models.Article) bool {
		if !drafts && !a.Published {
			return false
		}
		return tag == "" || containsString(a.Tags, tag)
	})
	if err != nil {
		return nil, err
	}
	sortNewest(list, func(a *models.Article) time.Time {
		if a.PublishedAt != nil {
			return *a.PublishedAt
		}
		return a.CreatedAt
	})
	return list, nil
}

// GetArticle looks an article up by slug, then by ID. Drafts read as not
// found unless drafts is true.
func (s *Service) GetArticle(ctx context.Context, slugOrID string, drafts bool) (*models.Article, error) {
	a, err := s.store.Articles.FindUnique(ctx, store.IndexSlug, slugOrID)
	if errors.Is(err, store.ErrNotFound) {
		a, err = s.store.Articles.Get(ctx, slugOrID)
	}
	if err != nil {
		return nil, err
	}
	if !a.Published && !drafts {
		return nil, store.ErrNotFound
	}
	return a, nil
}

func (s *Service) prepareArticle(actor Actor, a *models.Article, wasPublished bool) error {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return invalidf("title is required")
	}
	if a.Slug == "" {
		a.Slug = Slugify(a.Title)
	}
	if a.Slug == "" || Slugify(a.Slug) != a.Slug {
		return invalidf("slug %q must be lower-case words joined by hyphens", a.Slug)
	}
	if a.AuthorID == "" {
		a.AuthorID = actor.UserID
	}
	switch {
	case !a.Published:
		a.PublishedAt = nil
	case !wasPublished || a.PublishedAt == nil:
		now := s.now().UTC()
		a.PublishedAt = &now
	}
	return nil
}

// CreateArticle stores a news article. Admin only.
func (s *Service) CreateArticle(ctx context.Context, actor Actor, a *models.Article) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	a.ID = ""
	if err := s.prepareArticle(actor, a, false); err != nil {
		return err
	}
	if err := s.store.Articles.Insert(ctx, a); err != nil {
		return err
	}
	s.audit(ctx, actor, "create", "articles", a.ID, map[string]interface{}{"slug": a.Slug})
	if a.Published {
		s.publish(ctx, events.TopicArticlePublished, "", a.ID, a)
	}
	return nil
}

// UpdateArticle replaces an article.
func (s *Service) UpdateArticle(ctx context.Context, actor Actor, a *models.Article) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	old, err := s.store.Articles.Get(ctx, a.ID)
	if err != nil {
		return err
	}
	if a.PublishedAt == nil {
		a.PublishedAt = old.PublishedAt
	}
	if a.AuthorID == "" {
		a.AuthorID = old.AuthorID
	}
	if err := s.prepareArticle(actor, a, old.Published); err != nil {
		return err
	}
	if err := s.store.Articles.Replace(ctx, a); err != nil {
		return err
	}
	s.audit(ctx, actor, "update", "articles", a.ID, nil)
	if a.Published && !old.Published {
		s.publish(ctx, events.TopicArticlePublished, "", a.ID, a)
	}
	return nil
}

// DeleteArticle removes an article.
func (s *Service) DeleteArticle(ctx context.Context, actor Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.store.Articles.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, "delete", "articles", id, nil)
	return nil
}

// ReferencedUploads returns the upload file names that club logos and
// article covers point at.
func (s *Service) ReferencedUploads(ctx context.Context) (map[string]bool, error) {
	refs := map[string]bool{}
	clubs, err := s.store.Clubs.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, c := range clubs {
		if name := uploadName(s.cfg.UploadsURLPrefix, c.LogoURL); name != "" {
			refs[name] = true
		}
	}
	articles, err := s.store.Articles.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, a := range articles {
		if name := uploadName(s.cfg.UploadsURLPrefix, a.CoverImage); name != "" {
			refs[name] = true
		}
	}
	return refs, nil
}
