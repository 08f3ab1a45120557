// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/rinkside/internal/models"
)

// ListUsers handles GET /users?role=. Password hashes are never returned.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role != "" && !models.IsValidRole(role) {
		respondErr(w, r, errInvalidParam("role must be viewer, manager or admin"))
		return
	}
	p, err := h.parsePage(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	users, err := h.svc.ListUsers(r.Context(), role)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	list, meta := paginate(users, p)
	out := make([]models.PublicUser, 0, len(list))
	for _, u := range list {
		out = append(out, u.Public())
	}
	NewResponseWriter(w, r).SuccessWithPagination(out, meta)
}

// GetUser handles GET /users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, u.Public())
}

// CreateUser handles POST /users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	if req.Password == "" {
		respondErr(w, r, errInvalidParam("password is required"))
		return
	}
	u, err := h.svc.CreateUser(r.Context(), actorFrom(r), req.toInput())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(u.Public())
}

// UpdateUser handles PUT /users/{id}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	u, err := h.svc.UpdateUser(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, u.Public())
}

// DeleteUser handles DELETE /users/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteUser(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}
