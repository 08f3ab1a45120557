// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/rinkside/internal/league"
	"github.com/tomtom215/rinkside/internal/logging"
	"github.com/tomtom215/rinkside/internal/models"
)

// ListClubs handles GET /clubs?active=&q=.
func (h *Handler) ListClubs(w http.ResponseWriter, r *http.Request) {
	p, err := h.parsePage(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	active, err := boolQuery(r, "active")
	if err != nil {
		respondErr(w, r, err)
		return
	}
	clubs, err := h.svc.ListClubs(r.Context(), league.ClubFilter{Active: active, Query: r.URL.Query().Get("q")})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	out, meta := paginate(clubs, p)
	NewResponseWriter(w, r).SuccessWithPagination(out, meta)
}

// GetClub handles GET /clubs/{id}.
func (h *Handler) GetClub(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetClub(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, c)
}

// CreateClub handles POST /clubs.
func (h *Handler) CreateClub(w http.ResponseWriter, r *http.Request) {
	var req ClubRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	c := req.toModel("")
	if err := h.svc.CreateClub(r.Context(), actorFrom(r), c); err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(c)
}

// UpdateClub handles PUT /clubs/{id}.
func (h *Handler) UpdateClub(w http.ResponseWriter, r *http.Request) {
	var req ClubRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	c := req.toModel(chi.URLParam(r, "id"))
	if err := h.svc.UpdateClub(r.Context(), actorFrom(r), c); err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, c)
}

// DeleteClub handles DELETE /clubs/{id}.
func (h *Handler) DeleteClub(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteClub(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// ClubPlayers handles GET /clubs/{id}/players.
func (h *Handler) ClubPlayers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.svc.GetClub(r.Context(), id); err != nil {
		respondErr(w, r, err)
		return
	}
	players, err := h.svc.ListPlayers(r.Context(), league.PlayerFilter{ClubID: id})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, players)
}

// UploadClubLogo handles POST /clubs/{id}/logo with a multipart "file"
// field. The previous logo file is left for orphan cleanup.
func (h *Handler) UploadClubLogo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor := actorFrom(r)
	if !actor.Manages(id) {
		respondErr(w, r, league.ErrForbidden)
		return
	}
	if _, err := h.svc.GetClub(r.Context(), id); err != nil {
		respondErr(w, r, err)
		return
	}

	file, err := h.saveUpload(w, r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	club, err := h.svc.SetClubLogo(r.Context(), actor, id, file.URL)
	if err != nil {
		if derr := h.uploads.Delete(file.Name); derr != nil {
			logging.Ctx(r.Context()).Warn().Err(derr).Str("file", file.Name).Msg("Failed to remove unused logo")
		}
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, club)
}

// ListPlayers handles GET /players?club=&position=&free_agent=&active=&q=.
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	p, err := h.parsePage(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	q := r.URL.Query()
	f := league.PlayerFilter{ClubID: q.Get("club"), Position: q.Get("position"), Query: q.Get("q")}
	if f.Position != "" && !models.IsValidPosition(f.Position) {
		respondErr(w, r, errInvalidParam("position must be one of C, LW, RW, D, G"))
		return
	}
	if f.FreeAgent, err = boolQuery(r, "free_agent"); err != nil {
		respondErr(w, r, err)
		return
	}
	if f.Active, err = boolQuery(r, "active"); err != nil {
		respondErr(w, r, err)
		return
	}
	players, err := h.svc.ListPlayers(r.Context(), f)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	out, meta := paginate(players, p)
	NewResponseWriter(w, r).SuccessWithPagination(out, meta)
}

// GetPlayer handles GET /players/{id}.
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	pl, err := h.svc.GetPlayer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, pl)
}

// CreatePlayer handles POST /players.
func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req PlayerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	pl := req.toModel("")
	if err := h.svc.CreatePlayer(r.Context(), actorFrom(r), pl); err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(pl)
}

// UpdatePlayer handles PUT /players/{id}.
func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var req PlayerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	pl := req.toModel(chi.URLParam(r, "id"))
	if err := h.svc.UpdatePlayer(r.Context(), actorFrom(r), pl); err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, pl)
}

// DeletePlayer handles DELETE /players/{id}.
func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePlayer(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// PlayerStatsResponse holds a player's skater or goalie line.
type PlayerStatsResponse struct {
	PlayerID string      `json:"player_id"`
	SeasonID string      `json:"season_id,omitempty"`
	Scope    string      `json:"scope"`
	Skater   interface{} `json:"skater,omitempty"`
	Goalie   interface{} `json:"goalie,omitempty"`
}

// PlayerStats handles GET /players/{id}/stats?season=&scope=.
func (h *Handler) PlayerStats(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeQuery(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	seasonID := r.URL.Query().Get("season")
	skater, goalie, err := h.svc.PlayerStats(r.Context(), id, seasonID, scope)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	resp := PlayerStatsResponse{PlayerID: id, SeasonID: seasonID, Scope: scopeName(scope)}
	if skater != nil {
		resp.Skater = skater
	}
	if goalie != nil {
		resp.Goalie = goalie
	}
	WriteSuccess(w, r, resp)
}

func scopeName(scope string) string {
	if scope == league.ScopeAll {
		return "all"
	}
	return scope
}

// ListManagers handles GET /managers?club=.
func (h *Handler) ListManagers(w http.ResponseWriter, r *http.Request) {
	p, err := h.parsePage(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	managers, err := h.svc.ListManagers(r.Context(), r.URL.Query().Get("club"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	out, meta := paginate(managers, p)
	NewResponseWriter(w, r).SuccessWithPagination(out, meta)
}

// GetManager handles GET /managers/{id}.
func (h *Handler) GetManager(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.GetManager(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, m)
}

// CreateManager handles POST /managers.
func (h *Handler) CreateManager(w http.ResponseWriter, r *http.Request) {
	var req ManagerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	m := req.toModel("")
	if err := h.svc.CreateManager(r.Context(), actorFrom(r), m); err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(m)
}

// UpdateManager handles PUT /managers/{id}.
func (h *Handler) UpdateManager(w http.ResponseWriter, r *http.Request) {
	var req ManagerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	m := req.toModel(chi.URLParam(r, "id"))
	if err := h.svc.UpdateManager(r.Context(), actorFrom(r), m); err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, m)
}

// DeleteManager handles DELETE /managers/{id}.
func (h *Handler) DeleteManager(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteManager(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}
