// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package store

import (
	"strconv"

	"github.com/tomtom215/rinkside/internal/models"
)

// Collection names
const (
	CollectionClubs    = "clubs"
	CollectionPlayers  = "players"
	CollectionManagers = "managers"
	CollectionSeasons  = "seasons"
	CollectionGames    = "games"
	CollectionPlayoffs = "playoffs"
	CollectionRankings = "rankings"
	CollectionUsers    = "users"
	CollectionArticles = "articles"
	CollectionAudit    = "audit"
)

// Index names
const (
	IndexName       = "name"
	IndexShortName  = "short_name"
	IndexGamertag   = "gamertag"
	IndexUsername   = "username"
	IndexEmail      = "email"
	IndexSlug       = "slug"
	IndexSeasonWeek = "season_week"
)

// Store bundles one collection per document type.
type Store struct {
	DB       *DB
	Clubs    *Collection[*models.Club]
	Players  *Collection[*models.Player]
	Managers *Collection[*models.Manager]
	Seasons  *Collection[*models.Season]
	Games    *Collection[*models.Game]
	Playoffs *Collection[*models.Playoff]
	Rankings *Collection[*models.Ranking]
	Users    *Collection[*models.User]
	Articles *Collection[*models.Article]
	Audit    *Collection[*models.AuditEvent]
}

// New creates the collections on db.
func New(db *DB) *Store {
	return &Store{
		DB: db,
		Clubs: NewCollection(db, CollectionClubs,
			UniqueIndex[*models.Club]{Name: IndexName, Key: func(c *models.Club) string { return c.Name }},
			UniqueIndex[*models.Club]{Name: IndexShortName, Key: func(c *models.Club) string { return c.ShortName }},
		),
		Players: NewCollection(db, CollectionPlayers,
			UniqueIndex[*models.Player]{Name: IndexGamertag, Key: func(p *models.Player) string { return p.Gamertag }},
		),
		Managers: NewCollection[*models.Manager](db, CollectionManagers),
		Seasons: NewCollection(db, CollectionSeasons,
			UniqueIndex[*models.Season]{Name: IndexName, Key: func(s *models.Season) string { return s.Name }},
		),
		Games:    NewCollection[*models.Game](db, CollectionGames),
		Playoffs: NewCollection[*models.Playoff](db, CollectionPlayoffs),
		Rankings: NewCollection(db, CollectionRankings,
			UniqueIndex[*models.Ranking]{Name: IndexSeasonWeek, Key: seasonWeekKey},
		),
		Users: NewCollection(db, CollectionUsers,
			UniqueIndex[*models.User]{Name: IndexUsername, Key: func(u *models.User) string { return u.Username }},
			UniqueIndex[*models.User]{Name: IndexEmail, Key: func(u *models.User) string { return u.Email }},
		),
		Articles: NewCollection(db, CollectionArticles,
			UniqueIndex[*models.Article]{Name: IndexSlug, Key: func(a *models.Article) string { return a.Slug }},
		),
		Audit: NewCollection[*models.AuditEvent](db, CollectionAudit),
	}
}

// SeasonWeek builds the value of the rankings season_week index.
func SeasonWeek(seasonID string, week int) string {
	return seasonID + "#" + strconv.Itoa(week)
}

func seasonWeekKey(r *models.Ranking) string {
	if r.SeasonID == "" {
		return ""
	}
	return SeasonWeek(r.SeasonID, r.Week)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}
