// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/rinkside/internal/league"
	"github.com/tomtom215/rinkside/internal/models"
	"github.com/tomtom215/rinkside/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// errBadBody marks malformed JSON so it maps to 400.
var errBadBody = errors.New("malformed request body")

// decodeJSON reads a JSON body into dst and validates it. Unknown fields are
// rejected so typos surface instead of being silently dropped.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadBody)
		}
		return fmt.Errorf("%w: %w", errBadBody, err)
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		return verr
	}
	return nil
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// ColorsRequest holds club colors.
type ColorsRequest struct {
	Primary   string `json:"primary" validate:"omitempty,hexcolor"`
	Secondary string `json:"secondary" validate:"omitempty,hexcolor"`
}

// ClubRequest is the body of club create and update.
type ClubRequest struct {
	Name        string        `json:"name" validate:"required,max=64"`
	ShortName   string        `json:"short_name" validate:"required,min=2,max=5"`
	LogoURL     string        `json:"logo_url" validate:"max=512"`
	Description string        `json:"description" validate:"max=4000"`
	Active      *bool         `json:"active"`
	Colors      ColorsRequest `json:"colors"`
}

func (req *ClubRequest) toModel(id string) *models.Club {
	c := &models.Club{
		Name:        strings.TrimSpace(req.Name),
		ShortName:   strings.TrimSpace(req.ShortName),
		LogoURL:     req.LogoURL,
		Description: req.Description,
		Active:      req.Active == nil || *req.Active,
		Colors:      models.ClubColors{Primary: req.Colors.Primary, Secondary: req.Colors.Secondary},
	}
	c.ID = id
	return c
}

// PlayerRequest is the body of player create and update. An empty club_id
// makes the player a free agent.
type PlayerRequest struct {
	Gamertag    string `json:"gamertag" validate:"required,max=32"`
	DisplayName string `json:"display_name" validate:"max=64"`
	Position    string `json:"position" validate:"required,position"`
	Number      int    `json:"number" validate:"min=0,max=99"`
	ClubID      string `json:"club_id" validate:"max=64"`
	Nationality string `json:"nationality" validate:"max=64"`
	Active      *bool  `json:"active"`
}

func (req *PlayerRequest) toModel(id string) *models.Player {
	p := &models.Player{
		Gamertag:    strings.TrimSpace(req.Gamertag),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Position:    req.Position,
		Number:      req.Number,
		ClubID:      req.ClubID,
		Nationality: req.Nationality,
		Active:      req.Active == nil || *req.Active,
	}
	p.ID = id
	return p
}

// ManagerRequest is the body of manager create and update.
type ManagerRequest struct {
	ClubID string `json:"club_id" validate:"required,max=64"`
	UserID string `json:"user_id" validate:"max=64"`
	Name   string `json:"name" validate:"required,max=64"`
	Title  string `json:"title" validate:"required,oneof=gm agm coach"`
}

func (req *ManagerRequest) toModel(id string) *models.Manager {
	m := &models.Manager{
		ClubID: req.ClubID,
		UserID: req.UserID,
		Name:   strings.TrimSpace(req.Name),
		Title:  req.Title,
	}
	m.ID = id
	return m
}

// PointsRequest overrides league point values for a season.
type PointsRequest struct {
	Win  int `json:"win" validate:"min=0,max=10"`
	OTL  int `json:"otl" validate:"min=0,max=10"`
	Loss int `json:"loss" validate:"min=0,max=10"`
}

// SeasonRequest is the body of season create and update.
type SeasonRequest struct {
	Name     string        `json:"name" validate:"required,max=64"`
	Number   int           `json:"number" validate:"min=0"`
	Status   string        `json:"status" validate:"omitempty,oneof=upcoming active completed"`
	StartsAt *time.Time    `json:"starts_at"`
	EndsAt   *time.Time    `json:"ends_at"`
	ClubIDs  []string      `json:"club_ids" validate:"dive,required"`
	Points   PointsRequest `json:"points"`
}

func (req *SeasonRequest) toModel(id string) *models.Season {
	se := &models.Season{
		Name:     strings.TrimSpace(req.Name),
		Number:   req.Number,
		Status:   req.Status,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		ClubIDs:  req.ClubIDs,
		Points:   models.PointsRule{Win: req.Points.Win, OTL: req.Points.OTL, Loss: req.Points.Loss},
	}
	if se.Status == "" {
		se.Status = models.SeasonUpcoming
	}
	if se.ClubIDs == nil {
		se.ClubIDs = []string{}
	}
	se.ID = id
	return se
}

// GameRequest is the body of game create and update. Results go through
// POST /games/{id}/result.
type GameRequest struct {
	SeasonID    string    `json:"season_id" validate:"required"`
	HomeClubID  string    `json:"home_club_id" validate:"required"`
	AwayClubID  string    `json:"away_club_id" validate:"required,nefield=HomeClubID"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	PlayoffID   string    `json:"playoff_id"`
	SeriesID    string    `json:"series_id" validate:"required_with=PlayoffID"`
}

func (req *GameRequest) toModel(id string) *models.Game {
	g := &models.Game{
		SeasonID:    req.SeasonID,
		HomeClubID:  req.HomeClubID,
		AwayClubID:  req.AwayClubID,
		ScheduledAt: req.ScheduledAt.UTC(),
		PlayoffID:   req.PlayoffID,
		SeriesID:    req.SeriesID,
	}
	g.ID = id
	return g
}

// PlayerStatRequest is one player's line in a result.
type PlayerStatRequest struct {
	PlayerID     string `json:"player_id" validate:"required"`
	ClubID       string `json:"club_id" validate:"required"`
	Position     string `json:"position" validate:"required,position"`
	Goals        int    `json:"goals" validate:"min=0"`
	Assists      int    `json:"assists" validate:"min=0"`
	Shots        int    `json:"shots" validate:"min=0"`
	Hits         int    `json:"hits" validate:"min=0"`
	PIM          int    `json:"pim" validate:"min=0"`
	PlusMinus    int    `json:"plus_minus"`
	Saves        int    `json:"saves" validate:"min=0"`
	ShotsAgainst int    `json:"shots_against" validate:"min=0"`
	GoalsAgainst int    `json:"goals_against" validate:"min=0"`
}

// ResultRequest is the body of POST /games/{id}/result.
type ResultRequest struct {
	HomeScore   int                 `json:"home_score" validate:"min=0,max=99"`
	AwayScore   int                 `json:"away_score" validate:"min=0,max=99"`
	Overtime    bool                `json:"overtime"`
	PlayedAt    *time.Time          `json:"played_at"`
	PlayerStats []PlayerStatRequest `json:"player_stats" validate:"dive"`
}

func (req *ResultRequest) toResult() league.Result {
	res := league.Result{
		HomeScore: req.HomeScore,
		AwayScore: req.AwayScore,
		Overtime:  req.Overtime,
		PlayedAt:  req.PlayedAt,
	}
	for _, ps := range req.PlayerStats {
		res.PlayerStats = append(res.PlayerStats, models.PlayerGameStats{
			PlayerID:     ps.PlayerID,
			ClubID:       ps.ClubID,
			Position:     ps.Position,
			Goals:        ps.Goals,
			Assists:      ps.Assists,
			Shots:        ps.Shots,
			Hits:         ps.Hits,
			PIM:          ps.PIM,
			PlusMinus:    ps.PlusMinus,
			Saves:        ps.Saves,
			ShotsAgainst: ps.ShotsAgainst,
			GoalsAgainst: ps.GoalsAgainst,
		})
	}
	return res
}

// PlayoffRequest is the body of POST /playoffs. Without seeds the top
// teams clubs of the standings are seeded.
type PlayoffRequest struct {
	SeasonID      string   `json:"season_id" validate:"required"`
	Name          string   `json:"name" validate:"max=64"`
	Seeds         []string `json:"seeds" validate:"omitempty,min=2,unique,dive,required"`
	Teams         int      `json:"teams" validate:"omitempty,min=2,max=64"`
	SeriesLengths []int    `json:"series_lengths" validate:"omitempty,max=6,seriesrounds"`
}

// SeedsRequest is the body of PUT /playoffs/{id}/seeds.
type SeedsRequest struct {
	Seeds []string `json:"seeds" validate:"required,min=2,unique,dive,required"`
}

// SeriesGameRequest records the winner of a series game that has no Game
// document. game_id is generated when omitted.
type SeriesGameRequest struct {
	WinnerClubID string `json:"winner_club_id" validate:"required"`
	GameID       string `json:"game_id" validate:"max=64"`
}

// RankingEntryRequest is one row of a power-rankings post.
type RankingEntryRequest struct {
	ClubID string `json:"club_id" validate:"required"`
	Rank   int    `json:"rank" validate:"min=1"`
	Note   string `json:"note" validate:"max=500"`
}

// RankingRequest is the body of ranking create and update.
type RankingRequest struct {
	SeasonID  string                `json:"season_id" validate:"required"`
	Week      int                   `json:"week" validate:"min=1,max=52"`
	Title     string                `json:"title" validate:"max=128"`
	Entries   []RankingEntryRequest `json:"entries" validate:"required,min=1,dive"`
	Published bool                  `json:"published"`
}

func (req *RankingRequest) toModel(id string) *models.Ranking {
	rk := &models.Ranking{
		SeasonID:  req.SeasonID,
		Week:      req.Week,
		Title:     strings.TrimSpace(req.Title),
		Published: req.Published,
	}
	for _, e := range req.Entries {
		rk.Entries = append(rk.Entries, models.RankingEntry{ClubID: e.ClubID, Rank: e.Rank, Note: e.Note})
	}
	rk.ID = id
	return rk
}

// ArticleRequest is the body of article create and update. An empty slug is
// derived from the title.
type ArticleRequest struct {
	Title      string   `json:"title" validate:"required,max=200"`
	Slug       string   `json:"slug" validate:"omitempty,slug,max=128"`
	Summary    string   `json:"summary" validate:"max=500"`
	Body       string   `json:"body" validate:"required"`
	CoverImage string   `json:"cover_image" validate:"max=512"`
	Tags       []string `json:"tags" validate:"max=20,dive,required,max=32"`
	Published  bool     `json:"published"`
}

func (req *ArticleRequest) toModel(id string) *models.Article {
	a := &models.Article{
		Title:      strings.TrimSpace(req.Title),
		Slug:       req.Slug,
		Summary:    req.Summary,
		Body:       req.Body,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
		Published:  req.Published,
	}
	a.ID = id
	return a
}

// UserRequest is the body of user create and update. An empty password on
// update keeps the current one.
type UserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=viewer manager admin"`
	ClubID   string `json:"club_id" validate:"required_if=Role manager"`
	Disabled bool   `json:"disabled"`
}

func (req *UserRequest) toInput() league.UserInput {
	return league.UserInput{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Role:     req.Role,
		ClubID:   req.ClubID,
		Disabled: req.Disabled,
	}
}

// page is a parsed limit/offset pair.
type page struct {
	Limit  int
	Offset int
}

// parsePage reads limit and offset. Missing values use the configured
// default; limit is capped at the configured maximum.
func (h *Handler) parsePage(r *http.Request) (page, error) {
	p := page{Limit: h.cfg.API.DefaultPageSize}
	if p.Limit <= 0 {
		p.Limit = 20
	}
	maxLimit := h.cfg.API.MaxPageSize
	if maxLimit <= 0 {
		maxLimit = 100
	}

	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, fmt.Errorf("%w: limit must be a positive integer", league.ErrInvalid)
		}
		p.Limit = n
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, fmt.Errorf("%w: offset must be a non-negative integer", league.ErrInvalid)
		}
		p.Offset = n
	}
	return p, nil
}

// paginate slices items to p and describes the result.
func paginate[T any](items []T, p page) ([]T, *PaginationMeta) {
	total := len(items)
	start := p.Offset
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	out := items[start:end]
	if out == nil {
		out = []T{}
	}
	return out, &PaginationMeta{
		Total:   total,
		Count:   len(out),
		Offset:  p.Offset,
		Limit:   p.Limit,
		HasMore: end < total,
	}
}

// boolQuery parses an optional boolean query parameter.
func boolQuery(r *http.Request, name string) (*bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", league.ErrInvalid, name)
	}
	return &b, nil
}

// intQuery parses an optional non-negative integer query parameter.
func intQuery(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", league.ErrInvalid, name)
	}
	return n, nil
}

// scopeQuery parses the stats scope parameter.
func scopeQuery(r *http.Request) (string, error) {
	switch s := r.URL.Query().Get("scope"); s {
	case league.ScopeAll, "all":
		return league.ScopeAll, nil
	case league.ScopeRegular, league.ScopePlayoffs:
		return s, nil
	default:
		return "", fmt.Errorf("%w: scope must be all, regular or playoffs", league.ErrInvalid)
	}
}

// sanitizeLogValue strips control characters from user-supplied values
// before they reach the logs.
func sanitizeLogValue(s string) string {
	const maxLen = 256
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// errInvalidParam reports a bad query parameter.
func errInvalidParam(msg string) error {
	return fmt.Errorf("%w: %s", league.ErrInvalid, msg)
}
