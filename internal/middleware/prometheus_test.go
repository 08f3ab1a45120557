// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package middleware

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/rinkside/internal/metrics"
)

func newInstrumentedRouter(h http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/api/v1/test-clubs/{id}", h)
	r.Post("/api/v1/test-clubs", h)
	return r
}

func TestPrometheusMetrics_RouteLabels(t *testing.T) {
	router := newInstrumentedRouter(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/api/v1/test-clubs/{id}", "200"))
	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/test-clubs/"+id, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	}
	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/api/v1/test-clubs/{id}", "200"))
	if after-before != 3 {
		t.Errorf("route counter grew by %v, want 3", after-before)
	}
}

func TestPrometheusMetrics_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		write  bool
		want   string
	}{
		{"created", http.StatusCreated, true, "201"},
		{"server error", http.StatusInternalServerError, true, "500"},
		{"implicit ok", 0, false, "200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newInstrumentedRouter(func(w http.ResponseWriter, r *http.Request) {
				if tt.write {
					w.WriteHeader(tt.status)
				}
			})
			counter := metrics.APIRequestsTotal.WithLabelValues("POST", "/api/v1/test-clubs", tt.want)
			before := testutil.ToFloat64(counter)

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/test-clubs", nil))

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("counter for status %s grew by %v, want 1", tt.want, got)
			}
		})
	}
}

func TestPrometheusMetrics_Unmatched(t *testing.T) {
	router := newInstrumentedRouter(func(w http.ResponseWriter, r *http.Request) {})
	counter := metrics.APIRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404")
	before := testutil.ToFloat64(counter)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", nil))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("unmatched counter grew by %v, want 1", got)
	}
}

func TestPrometheusMetrics_ActiveRequestsBalanced(t *testing.T) {
	router := newInstrumentedRouter(func(w http.ResponseWriter, r *http.Request) {})
	before := testutil.ToFloat64(metrics.APIActiveRequests)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/test-clubs/x", nil))
	if got := testutil.ToFloat64(metrics.APIActiveRequests); got != before {
		t.Errorf("active requests = %v after request, want %v", got, before)
	}
}

// hijackRecorder is a ResponseRecorder that supports Hijack.
type hijackRecorder struct {
	*httptest.ResponseRecorder
	hijacked bool
}

func (h *hijackRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	return nil, nil, nil
}

func TestPrometheusMetrics_PreservesHijacker(t *testing.T) {
	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Error("wrapped writer lost http.Hijacker")
			return
		}
		_, _, _ = hj.Hijack()
	}))

	rec := &hijackRecorder{ResponseRecorder: httptest.NewRecorder()}
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil))
	if !rec.hijacked {
		t.Error("Hijack was not forwarded")
	}
}

func TestRoutePattern_NoChiContext(t *testing.T) {
	if got := RoutePattern(httptest.NewRequest(http.MethodGet, "/", nil)); got != unmatchedRoute {
		t.Errorf("RoutePattern() = %q, want %q", got, unmatchedRoute)
	}
}

func TestAccessLog_PassesThrough(t *testing.T) {
	handler := AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot || rec.Body.String() != "short and stout" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}
