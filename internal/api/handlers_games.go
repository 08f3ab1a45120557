// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/rinkside/internal/league"
	"github.com/tomtom215/rinkside/internal/models"
)

// ListGames handles GET /games?season=&club=&status=&playoff=.
// playoff accepts true/false or a playoff ID.
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	p, err := h.parsePage(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	q := r.URL.Query()
	f := league.GameFilter{SeasonID: q.Get("season"), ClubID: q.Get("club"), Status: q.Get("status")}
	switch f.Status {
	case "", models.GameScheduled, models.GameFinal:
	default:
		respondErr(w, r, errInvalidParam("status must be scheduled or final"))
		return
	}
	switch v := q.Get("playoff"); v {
	case "":
	case "true", "false":
		b := v == "true"
		f.Playoff = &b
	default:
		f.PlayoffID = v
	}

	games, err := h.svc.ListGames(r.Context(), f)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	out, meta := paginate(games, p)
	NewResponseWriter(w, r).SuccessWithPagination(out, meta)
}

// GetGame handles GET /games/{id}.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, g)
}

// CreateGame handles POST /games.
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	g := req.toModel("")
	if err := h.svc.CreateGame(r.Context(), actorFrom(r), g); err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(g)
}

// UpdateGame handles PUT /games/{id}. Results are not changed here.
func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	g := req.toModel(chi.URLParam(r, "id"))
	if err := h.svc.UpdateGame(r.Context(), actorFrom(r), g); err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, g)
}

// DeleteGame handles DELETE /games/{id}.
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteGame(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// RecordResult handles POST /games/{id}/result. Posting to a final game
// corrects its result.
func (h *Handler) RecordResult(w http.ResponseWriter, r *http.Request) {
	var req ResultRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	g, err := h.svc.RecordResult(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req.toResult())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, g)
}

// ListPlayoffs handles GET /playoffs?season=.
func (h *Handler) ListPlayoffs(w http.ResponseWriter, r *http.Request) {
	p, err := h.parsePage(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	list, err := h.svc.ListPlayoffs(r.Context(), r.URL.Query().Get("season"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	out, meta := paginate(list, p)
	NewResponseWriter(w, r).SuccessWithPagination(out, meta)
}

// GetPlayoff handles GET /playoffs/{id}.
func (h *Handler) GetPlayoff(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetPlayoff(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, p)
}

// CreatePlayoff handles POST /playoffs.
func (h *Handler) CreatePlayoff(w http.ResponseWriter, r *http.Request) {
	var req PlayoffRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	p, err := h.svc.CreatePlayoff(r.Context(), actorFrom(r), league.NewPlayoff{
		SeasonID:      req.SeasonID,
		Name:          req.Name,
		Seeds:         req.Seeds,
		Teams:         req.Teams,
		SeriesLengths: req.SeriesLengths,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(p)
}

// ReseedPlayoff handles PUT /playoffs/{id}/seeds.
func (h *Handler) ReseedPlayoff(w http.ResponseWriter, r *http.Request) {
	var req SeedsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	p, err := h.svc.ReseedPlayoff(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req.Seeds)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, p)
}

// RecordSeriesGame handles POST /playoffs/{id}/series/{seriesID}/games.
func (h *Handler) RecordSeriesGame(w http.ResponseWriter, r *http.Request) {
	var req SeriesGameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	gameID := req.GameID
	if gameID == "" {
		gameID = uuid.NewString()
	}
	p, err := h.svc.RecordSeriesGame(r.Context(), actorFrom(r),
		chi.URLParam(r, "id"), chi.URLParam(r, "seriesID"), req.WinnerClubID, gameID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(p)
}

// UndoSeriesGame handles DELETE /playoffs/{id}/series/{seriesID}/games/{gameID}.
func (h *Handler) UndoSeriesGame(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.UndoSeriesGame(r.Context(), actorFrom(r),
		chi.URLParam(r, "id"), chi.URLParam(r, "seriesID"), chi.URLParam(r, "gameID"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, p)
}

// DeletePlayoff handles DELETE /playoffs/{id}.
func (h *Handler) DeletePlayoff(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePlayoff(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}
