// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/rinkside/internal/league"
	"github.com/tomtom215/rinkside/internal/models"
)

// default and maximum leaderboard sizes
const (
	defaultLeadersLimit = 10
	maxLeadersLimit     = 100
)

// ListSeasons handles GET /seasons?status=.
func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case "", models.SeasonUpcoming, models.SeasonActive, models.SeasonCompleted:
	default:
		respondErr(w, r, errInvalidParam("status must be upcoming, active or completed"))
		return
	}
	p, err := h.parsePage(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	seasons, err := h.svc.ListSeasons(r.Context(), status)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	out, meta := paginate(seasons, p)
	NewResponseWriter(w, r).SuccessWithPagination(out, meta)
}

// GetSeason handles GET /seasons/{id}.
func (h *Handler) GetSeason(w http.ResponseWriter, r *http.Request) {
	se, err := h.svc.GetSeason(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, se)
}

// CreateSeason handles POST /seasons.
func (h *Handler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	var req SeasonRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	se := req.toModel("")
	if err := h.svc.CreateSeason(r.Context(), actorFrom(r), se); err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(se)
}

// UpdateSeason handles PUT /seasons/{id}.
func (h *Handler) UpdateSeason(w http.ResponseWriter, r *http.Request) {
	var req SeasonRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	se := req.toModel(chi.URLParam(r, "id"))
	if err := h.svc.UpdateSeason(r.Context(), actorFrom(r), se); err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, se)
}

// DeleteSeason handles DELETE /seasons/{id}.
func (h *Handler) DeleteSeason(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSeason(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// Standings handles GET /seasons/{id}/standings.
func (h *Handler) Standings(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Standings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, rows)
}

func (h *Handler) statsFilter(r *http.Request) (league.StatsFilter, error) {
	scope, err := scopeQuery(r)
	if err != nil {
		return league.StatsFilter{}, err
	}
	return league.StatsFilter{
		SeasonID: chi.URLParam(r, "id"),
		ClubID:   r.URL.Query().Get("club"),
		Scope:    scope,
	}, nil
}

// SkaterStats handles GET /seasons/{id}/stats/skaters?club=&scope=.
func (h *Handler) SkaterStats(w http.ResponseWriter, r *http.Request) {
	f, err := h.statsFilter(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	p, err := h.parsePage(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	skaters, _, err := h.svc.SeasonStats(r.Context(), f)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	out, meta := paginate(skaters, p)
	NewResponseWriter(w, r).SuccessWithPagination(out, meta)
}

// GoalieStats handles GET /seasons/{id}/stats/goalies?club=&scope=.
func (h *Handler) GoalieStats(w http.ResponseWriter, r *http.Request) {
	f, err := h.statsFilter(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	p, err := h.parsePage(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	_, goalies, err := h.svc.SeasonStats(r.Context(), f)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	out, meta := paginate(goalies, p)
	NewResponseWriter(w, r).SuccessWithPagination(out, meta)
}

// Leaders handles GET /seasons/{id}/leaders?category=&limit=&min_games=&scope=.
// category defaults to points.
func (h *Handler) Leaders(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = league.CategoryPoints
	}
	scope, err := scopeQuery(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	limit, err := intQuery(r, "limit", defaultLeadersLimit)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if limit == 0 || limit > maxLeadersLimit {
		limit = maxLeadersLimit
	}
	minGames, err := intQuery(r, "min_games", 0)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	rows, err := h.svc.SeasonLeaders(r.Context(), chi.URLParam(r, "id"), category, scope, limit, minGames)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, map[string]interface{}{
		"category": category,
		"leaders":  rows,
	})
}

// LeaderCategories handles GET /leaders/categories.
func (h *Handler) LeaderCategories(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, league.Categories())
}

// PowerRankings handles GET /seasons/{id}/power-rankings.
func (h *Handler) PowerRankings(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.PowerRankings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, rows)
}
