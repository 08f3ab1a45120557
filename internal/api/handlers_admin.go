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
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/rinkside/internal/cache"
	"github.com/tomtom215/rinkside/internal/logging"
	"github.com/tomtom215/rinkside/internal/uploads"
)

// uploadFormField is the multipart field carrying the file.
const uploadFormField = "file"

// multipartOverhead allows for part headers and boundaries around the file.
const multipartOverhead = 64 << 10

// saveUpload streams the "file" part of a multipart body into the upload
// store. Other parts are skipped.
func (h *Handler) saveUpload(w http.ResponseWriter, r *http.Request) (*uploads.File, error) {
	if h.uploads == nil {
		return nil, ErrUploadsDisabled
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxBytes()+multipartOverhead)
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: expected multipart/form-data: %w", errBadBody, err)
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing %q field", errBadBody, uploadFormField)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errBadBody, err)
		}
		if part.FormName() != uploadFormField {
			_ = part.Close()
			continue
		}
		file, err := h.uploads.Save(part.FileName(), part)
		_ = part.Close()
		return file, err
	}
}

// Upload handles POST /uploads.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	file, err := h.saveUpload(w, r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(file)
}

// ServeUpload handles GET /uploads/{name}.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	if h.uploads == nil {
		NewResponseWriter(w, r).NotFound("file not found")
		return
	}
	h.uploads.ServeFile(w, r, chi.URLParam(r, "name"))
}

// ListUploads handles GET /admin/uploads.
func (h *Handler) ListUploads(w http.ResponseWriter, r *http.Request) {
	if h.uploads == nil {
		respondErr(w, r, ErrUploadsDisabled)
		return
	}
	files, err := h.uploads.List()
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, files)
}

// CleanupUploads handles POST /admin/uploads/cleanup?dry_run=. Files that
// no club logo or article cover points at, and that are older than the
// orphan grace period, are deleted.
func (h *Handler) CleanupUploads(w http.ResponseWriter, r *http.Request) {
	if h.uploads == nil {
		respondErr(w, r, ErrUploadsDisabled)
		return
	}
	dryRun, err := boolQuery(r, "dry_run")
	if err != nil {
		respondErr(w, r, err)
		return
	}
	refs, err := h.svc.ReferencedUploads(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	report, err := h.uploads.Cleanup(refs, dryRun != nil && *dryRun)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, report)
}

// CreateBackup handles POST /admin/backups.
func (h *Handler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		respondErr(w, r, ErrBackupsDisabled)
		return
	}
	b, err := h.backups.Create(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(b)
}

// ListBackups handles GET /admin/backups.
func (h *Handler) ListBackups(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		respondErr(w, r, ErrBackupsDisabled)
		return
	}
	list, err := h.backups.List()
	if err != nil {
		respondErr(w, r, err)
		return
	}
	WriteSuccess(w, r, list)
}

// ListAudit handles GET /admin/audit?resource=&limit=&offset=.
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	p, err := h.parsePage(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	evs, err := h.svc.ListAudit(r.Context(), r.URL.Query().Get("resource"), 0)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	out, meta := paginate(evs, p)
	NewResponseWriter(w, r).SuccessWithPagination(out, meta)
}

// CacheStats is the body of GET /admin/cache.
type CacheStats struct {
	Hits          int64          `json:"hits"`
	Misses        int64          `json:"misses"`
	Evictions     int64          `json:"evictions"`
	Invalidations int64          `json:"invalidations"`
	TotalKeys     int64          `json:"total_keys"`
	LastCleanup   time.Time      `json:"last_cleanup"`
	HitRate       float64        `json:"hit_rate"`
	Views         map[string]int `json:"views"`
	Keys          []string       `json:"keys"`
}

// GetCacheStats handles GET /admin/cache.
func (h *Handler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		WriteSuccess(w, r, CacheStats{Views: map[string]int{}, Keys: []string{}})
		return
	}
	keys := h.cache.Keys()
	sort.Strings(keys)
	views := map[string]int{}
	for _, k := range keys {
		views[cache.ViewType(k)]++
	}
	st := h.cache.GetStats()
	WriteSuccess(w, r, CacheStats{
		Hits:          st.Hits,
		Misses:        st.Misses,
		Evictions:     st.Evictions,
		Invalidations: st.Invalidations,
		TotalKeys:     st.TotalKeys,
		LastCleanup:   st.LastCleanup,
		HitRate:       h.cache.HitRate(),
		Views:         views,
		Keys:          keys,
	})
}

// ClearCache handles DELETE /admin/cache.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		h.cache.Clear()
	}
	logging.Ctx(r.Context()).Info().Str("user", actorFrom(r).Username).Msg("View cache cleared")
	NewResponseWriter(w, r).NoContent()
}
