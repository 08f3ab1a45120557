// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/rinkside/internal/config"
	"github.com/tomtom215/rinkside/internal/league"
	"github.com/tomtom215/rinkside/internal/playoffs"
	"github.com/tomtom215/rinkside/internal/store"
	"github.com/tomtom215/rinkside/internal/uploads"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", fmt.Errorf("club x: %w", store.ErrNotFound), http.StatusNotFound, ErrCodeNotFound},
		{"upload not found", uploads.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"conflict", store.ErrConflict, http.StatusConflict, ErrCodeConflict},
		{"referenced", league.ErrReferenced, http.StatusConflict, ErrCodeConflict},
		{"invalid", fmt.Errorf("%w: ties", league.ErrInvalid), http.StatusBadRequest, ErrCodeBadRequest},
		{"bracket", playoffs.ErrDuplicateSeed, http.StatusBadRequest, ErrCodeBadRequest},
		{"unsupported upload", uploads.ErrUnsupportedType, http.StatusBadRequest, ErrCodeBadRequest},
		{"upload too large", uploads.ErrTooLarge, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge},
		{"body too large", fmt.Errorf("%w: %w", errBadBody, &http.MaxBytesError{Limit: 10}), http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge},
		{"forbidden", league.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
		{"registration closed", league.ErrRegistrationClosed, http.StatusForbidden, ErrCodeForbidden},
		{"credentials", league.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"store closed", store.ErrClosed, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"backups off", ErrBackupsDisabled, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"timeout", context.DeadlineExceeded, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := statusFor(tt.err)
			if status != tt.wantStatus || code != tt.wantCode {
				t.Errorf("statusFor() = %d %s, want %d %s", status, code, tt.wantStatus, tt.wantCode)
			}
		})
	}
}

func TestRespondErr_HidesInternalErrors(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	respondErr(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("badger: value log corrupt"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "badger") {
		t.Errorf("body leaks internal error: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	respondErr(rec, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("%w: season s9 has no clubs", league.ErrInvalid))
	if !strings.Contains(rec.Body.String(), "season s9 has no clubs") {
		t.Errorf("client error message missing: %s", rec.Body.String())
	}
}

func TestParsePage(t *testing.T) {
	t.Parallel()

	h := NewHandler(Deps{Config: &config.Config{API: config.APIConfig{DefaultPageSize: 10, MaxPageSize: 25}}})
	tests := []struct {
		query   string
		want    page
		wantErr bool
	}{
		{"", page{Limit: 10}, false},
		{"?limit=5&offset=15", page{Limit: 5, Offset: 15}, false},
		{"?limit=500", page{Limit: 25}, false},
		{"?limit=0", page{}, true},
		{"?limit=ten", page{}, true},
		{"?offset=-1", page{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := h.parsePage(httptest.NewRequest(http.MethodGet, "/clubs"+tt.query, nil))
			if tt.wantErr {
				if !errors.Is(err, league.ErrInvalid) {
					t.Errorf("parsePage() error = %v, want ErrInvalid", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePage() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("parsePage() = %+v, want %+v", got, tt.want)
			}
		})
	}

	defaults := NewHandler(Deps{})
	got, err := defaults.parsePage(httptest.NewRequest(http.MethodGet, "/clubs?limit=1000", nil))
	if err != nil || got.Limit != 100 {
		t.Errorf("default cap = %+v, %v; want limit 100", got, err)
	}
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5}
	out, meta := paginate(items, page{Limit: 2, Offset: 2})
	if len(out) != 2 || out[0] != 3 || !meta.HasMore || meta.Total != 5 || meta.Count != 2 {
		t.Errorf("middle page = %v %+v", out, meta)
	}
	out, meta = paginate(items, page{Limit: 2, Offset: 4})
	if len(out) != 1 || meta.HasMore {
		t.Errorf("last page = %v %+v", out, meta)
	}
	out, meta = paginate(items, page{Limit: 2, Offset: 9})
	if out == nil || len(out) != 0 || meta.Count != 0 {
		t.Errorf("past the end = %v %+v", out, meta)
	}
	var none []string
	if out, _ := paginate(none, page{Limit: 5}); out == nil {
		t.Error("paginate(nil) returned nil, want empty slice")
	}
}

func TestQueryParsers(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?active=false&n=7&bad=yes&neg=-2&scope=playoffs", nil)
	if b, err := boolQuery(req, "active"); err != nil || b == nil || *b {
		t.Errorf("boolQuery(active) = %v, %v", b, err)
	}
	if b, err := boolQuery(req, "missing"); err != nil || b != nil {
		t.Errorf("boolQuery(missing) = %v, %v", b, err)
	}
	if _, err := boolQuery(req, "bad"); err == nil {
		t.Error("boolQuery(bad) expected error")
	}
	if n, err := intQuery(req, "n", 3); err != nil || n != 7 {
		t.Errorf("intQuery(n) = %d, %v", n, err)
	}
	if n, _ := intQuery(req, "missing", 3); n != 3 {
		t.Errorf("intQuery default = %d, want 3", n)
	}
	if _, err := intQuery(req, "neg", 0); err == nil {
		t.Error("intQuery(neg) expected error")
	}
	if s, err := scopeQuery(req); err != nil || s != league.ScopePlayoffs {
		t.Errorf("scopeQuery() = %q, %v", s, err)
	}
	all := httptest.NewRequest(http.MethodGet, "/?scope=all", nil)
	if s, err := scopeQuery(all); err != nil || s != league.ScopeAll {
		t.Errorf("scopeQuery(all) = %q, %v", s, err)
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	if got := sanitizeLogValue("fan\r\nlevel=admin"); got != "fanlevel=admin" {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
	if got := sanitizeLogValue(strings.Repeat("a", 300)); len(got) != 256 {
		t.Errorf("len = %d, want 256", len(got))
	}
}

func TestCheckWebSocketOrigin(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Server.PublicURL = "https://rinkside.example/"
	h := NewHandler(Deps{Config: cfg})

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"missing", "", false},
		{"same host", "http://example.com", true},
		{"public url", "https://rinkside.example", true},
		{"cors origin", "https://league.example", true},
		{"stranger", "https://evil.example", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := h.checkWebSocketOrigin(req); got != tt.want {
				t.Errorf("checkWebSocketOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}

func TestChiMiddlewareConfigFrom(t *testing.T) {
	t.Parallel()

	cfg := ChiMiddlewareConfigFrom(&config.SecurityConfig{
		CORSOrigins:        []string{"https://league.example"},
		RateLimitReqs:      30,
		LoginRateLimitReqs: 3,
	})
	if !cfg.CORSAllowCredentials {
		t.Error("explicit origins should allow credentials")
	}
	if cfg.RateLimitRequests != 30 || cfg.LoginRateLimitRequests != 3 {
		t.Errorf("limits = %d/%d, want 30/3", cfg.RateLimitRequests, cfg.LoginRateLimitRequests)
	}
	if cfg.RateLimitWindow != DefaultChiMiddlewareConfig().RateLimitWindow {
		t.Errorf("window = %v, want default", cfg.RateLimitWindow)
	}

	wild := ChiMiddlewareConfigFrom(&config.SecurityConfig{CORSOrigins: []string{"*"}})
	if wild.CORSAllowCredentials {
		t.Error("wildcard origin must not allow credentials")
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/clubs", nil)
	req.Header.Set("Origin", "https://league.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://league.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
