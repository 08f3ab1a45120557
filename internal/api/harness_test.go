// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/rinkside/internal/auth"
	"github.com/tomtom215/rinkside/internal/authz"
	"github.com/tomtom215/rinkside/internal/cache"
	"github.com/tomtom215/rinkside/internal/config"
	"github.com/tomtom215/rinkside/internal/league"
	"github.com/tomtom215/rinkside/internal/models"
	"github.com/tomtom215/rinkside/internal/store"
	"github.com/tomtom215/rinkside/internal/uploads"
)

const testSecret = "test-secret-key-that-is-at-least-32-characters-long"

// pngData is the smallest header mimetype recognises as image/png.
var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

// testServer is a full router over an in-memory store.
type testServer struct {
	t       *testing.T
	handler http.Handler
	svc     *league.Service
	uploads *uploads.Store
	cache   *cache.Cache
	jwt     *auth.JWTManager

	adminToken  string
	viewerToken string
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Environment: "development"},
		Uploads: config.UploadsConfig{
			URLPrefix: "/api/v1/uploads",
		},
		Security: config.SecurityConfig{
			AuthMode:            config.AuthModeJWT,
			JWTSecret:           testSecret,
			SessionTimeout:      time.Hour,
			RegistrationEnabled: true,
			RateLimitDisabled:   true,
			CORSOrigins:         []string{"https://league.example"},
		},
		API: config.APIConfig{DefaultPageSize: 20, MaxPageSize: 50},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, testConfig())
}

func newTestServerWith(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	db, err := store.Open(store.Config{InMemory: true})
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	views := cache.New(time.Minute)
	t.Cleanup(views.Stop)

	svc := league.NewService(store.New(db), league.Config{
		BcryptCost:          bcrypt.MinCost,
		RegistrationEnabled: cfg.Security.RegistrationEnabled,
		UploadsURLPrefix:    cfg.Uploads.URLPrefix,
	}, nil, views)

	up, err := uploads.New(uploads.Config{Dir: t.TempDir(), MaxBytes: 4096, URLPrefix: cfg.Uploads.URLPrefix})
	if err != nil {
		t.Fatalf("uploads.New() error = %v", err)
	}

	jwtMgr, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	enforcer, err := authz.NewEnforcer(context.Background(), authz.DefaultEnforcerConfig())
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	t.Cleanup(enforcer.Close)

	h := NewHandler(Deps{
		Config:  cfg,
		League:  svc,
		DB:      db,
		Uploads: up,
		Cache:   views,
		JWT:     jwtMgr,
		Version: "test",
	})
	router := NewRouter(h, NewChiMiddleware(ChiMiddlewareConfigFrom(&cfg.Security)),
		auth.NewMiddleware(jwtMgr, cfg.Security.AuthMode), authz.NewMiddleware(enforcer))

	ts := &testServer{
		t:       t,
		handler: router.SetupChi(),
		svc:     svc,
		uploads: up,
		cache:   views,
		jwt:     jwtMgr,
	}

	if _, err := svc.EnsureAdmin(context.Background(), "commish", "correct-horse"); err != nil {
		t.Fatalf("EnsureAdmin() error = %v", err)
	}
	admin, err := svc.Authenticate(context.Background(), "commish", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	ts.adminToken = ts.tokenFor(admin)
	viewer, err := svc.CreateUser(context.Background(), league.System, league.UserInput{
		Username: "fan", Email: "fan@example.com", Password: "go-team-go", Role: models.RoleViewer,
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	ts.viewerToken = ts.tokenFor(viewer)
	return ts
}

func (ts *testServer) tokenFor(u *models.User) string {
	ts.t.Helper()
	token, _, err := ts.jwt.GenerateToken(u)
	if err != nil {
		ts.t.Fatalf("GenerateToken() error = %v", err)
	}
	return token
}

// do sends a request with an optional JSON body and bearer token.
func (ts *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	ts.t.Helper()
	var rdr io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rdr = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			if err != nil {
				ts.t.Fatalf("marshal body: %v", err)
			}
			rdr = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// envelope is the decoded response wrapper with raw data.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return env
}

// mustStatus fails unless rec has status want, and returns the envelope.
func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) envelope {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
	if want == http.StatusNoContent {
		return envelope{Success: true}
	}
	return decodeEnvelope(t, rec)
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data: %v (data %s)", err, env.Data)
	}
	return v
}

// createClub posts a club as admin and returns it.
func (ts *testServer) createClub(name, short string) models.Club {
	ts.t.Helper()
	rec := ts.do(http.MethodPost, "/api/v1/clubs", ts.adminToken, map[string]interface{}{
		"name": name, "short_name": short,
	})
	return decodeData[models.Club](ts.t, mustStatus(ts.t, rec, http.StatusCreated))
}
