// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package models

import (
	"time"
)

// RankingEntry is one club's place in a power-rankings post.
// PreviousRank is 0 when the club was not ranked the prior week.
type RankingEntry struct {
	ClubID       string `json:"club_id"`
	Rank         int    `json:"rank"`
	PreviousRank int    `json:"previous_rank"`
	Note         string `json:"note,omitempty"`
}

// Movement returns how many places the club climbed (negative when it fell).
func (e RankingEntry) Movement() int {
	if e.PreviousRank == 0 {
		return 0
	}
	return e.PreviousRank - e.Rank
}

// Ranking is an editorial power-rankings post for one week of a season.
type Ranking struct {
	Base
	SeasonID    string         `json:"season_id"`
	Week        int            `json:"week"`
	Title       string         `json:"title"`
	Entries     []RankingEntry `json:"entries"`
	Published   bool           `json:"published"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	AuthorID    string         `json:"author_id,omitempty"`
}

// Article is a league news post. Unpublished articles are drafts.
type Article struct {
	Base
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary,omitempty"`
	Body        string     `json:"body"`
	CoverImage  string     `json:"cover_image,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	AuthorID    string     `json:"author_id,omitempty"`
}

// AuditEvent records a staff mutation.
type AuditEvent struct {
	Base
	Actor      string                 `json:"actor"`
	Action     string                 `json:"action"`
	Resource   string                 `json:"resource"`
	ResourceID string                 `json:"resource_id,omitempty"`
	At         time.Time              `json:"at"`
	Details    map[string]interface{} `json:"details,omitempty"`
}
