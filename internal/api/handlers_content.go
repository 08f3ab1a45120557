// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListRankings handles GET /rankings?season=. Drafts are listed for staff only.
func (h *Handler) ListRankings(w http.ResponseWriter, r *http.Request) {
	p, err := h.parsePage(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	list, err := h.svc.ListRankings(r.Context(), r.URL.Query().Get("season"), canSeeDrafts(r))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	out, meta := paginate(list, p)
	NewResponseWriter(w, r).SuccessWithPagination(out, meta)
}

// GetRanking handles GET /rankings/{id}.
func (h *Handler) GetRanking(w http.ResponseWriter, r *http.Request) {
	rk, err := h.svc.GetRanking(r.Context(), chi.URLParam(r, "id"), canSeeDrafts(r))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, rk)
}

// CreateRanking handles POST /rankings.
func (h *Handler) CreateRanking(w http.ResponseWriter, r *http.Request) {
	var req RankingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	rk := req.toModel("")
	if err := h.svc.CreateRanking(r.Context(), actorFrom(r), rk); err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(rk)
}

// UpdateRanking handles PUT /rankings/{id}.
func (h *Handler) UpdateRanking(w http.ResponseWriter, r *http.Request) {
	var req RankingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	rk := req.toModel(chi.URLParam(r, "id"))
	if err := h.svc.UpdateRanking(r.Context(), actorFrom(r), rk); err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, rk)
}

// DeleteRanking handles DELETE /rankings/{id}.
func (h *Handler) DeleteRanking(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRanking(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// ListArticles handles GET /articles?tag=.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	p, err := h.parsePage(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	list, err := h.svc.ListArticles(r.Context(), r.URL.Query().Get("tag"), canSeeDrafts(r))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	out, meta := paginate(list, p)
	NewResponseWriter(w, r).SuccessWithPagination(out, meta)
}

// GetArticle handles GET /articles/{slugOrID}.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetArticle(r.Context(), chi.URLParam(r, "slugOrID"), canSeeDrafts(r))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, a)
}

// CreateArticle handles POST /articles.
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req ArticleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	a := req.toModel("")
	if err := h.svc.CreateArticle(r.Context(), actorFrom(r), a); err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(a)
}

// UpdateArticle handles PUT /articles/{id}.
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var req ArticleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	a := req.toModel(chi.URLParam(r, "id"))
	if err := h.svc.UpdateArticle(r.Context(), actorFrom(r), a); err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, a)
}

// DeleteArticle handles DELETE /articles/{id}.
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteArticle(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}
