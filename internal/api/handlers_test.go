// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/rinkside/internal/league"
	"github.com/tomtom215/rinkside/internal/models"
	"github.com/tomtom215/rinkside/internal/uploads"
)

func TestHealth(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	env := mustStatus(t, ts.do(http.MethodGet, "/api/v1/health", "", nil), http.StatusOK)
	health := decodeData[HealthStatus](t, env)
	if health.Status != "healthy" || !health.DatabaseConnected {
		t.Errorf("health = %+v, want healthy with database", health)
	}
	if health.Version != "test" {
		t.Errorf("Version = %q, want test", health.Version)
	}
	if env.Meta == nil || env.Meta.RequestID == "" {
		t.Error("meta.request_id missing")
	}

	mustStatus(t, ts.do(http.MethodGet, "/api/v1/health/live", "", nil), http.StatusOK)
	mustStatus(t, ts.do(http.MethodGet, "/api/v1/health/ready", "", nil), http.StatusOK)
}

func TestHealthReady_NoDatabase(t *testing.T) {
	t.Parallel()

	h := NewHandler(Deps{Config: testConfig()})
	rec := httptest.NewRecorder()
	h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestRouting_Envelopes(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	env := mustStatus(t, ts.do(http.MethodGet, "/api/v1/nothing-here", "", nil), http.StatusNotFound)
	if env.Success || env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("not found envelope = %+v", env)
	}

	env = mustStatus(t, ts.do(http.MethodPatch, "/api/v1/clubs", ts.adminToken, nil), http.StatusMethodNotAllowed)
	if env.Error == nil || env.Error.Code != ErrCodeMethodNotAllowed {
		t.Errorf("method envelope = %+v", env.Error)
	}

	rec := ts.do(http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "rinkside_") {
		t.Errorf("/metrics status = %d", rec.Code)
	}
}

func TestClubs_CRUDAndAccess(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	body := map[string]interface{}{"name": "Harbour Hawks", "short_name": "haw", "colors": map[string]string{"primary": "#112233"}}

	rec := ts.do(http.MethodPost, "/api/v1/clubs", "", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create status = %d, want 401", rec.Code)
	}
	rec = ts.do(http.MethodPost, "/api/v1/clubs", ts.viewerToken, body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("viewer create status = %d, want 403", rec.Code)
	}

	club := decodeData[models.Club](t, mustStatus(t, ts.do(http.MethodPost, "/api/v1/clubs", ts.adminToken, body), http.StatusCreated))
	if club.ID == "" || club.ShortName != "HAW" || !club.Active {
		t.Errorf("created club = %+v", club)
	}

	mustStatus(t, ts.do(http.MethodPost, "/api/v1/clubs", ts.adminToken, body), http.StatusConflict)

	env := mustStatus(t, ts.do(http.MethodGet, "/api/v1/clubs", "", nil), http.StatusOK)
	if env.Meta == nil || env.Meta.Pagination == nil || env.Meta.Pagination.Total != 1 {
		t.Fatalf("pagination = %+v", env.Meta)
	}

	update := map[string]interface{}{"name": "Harbour Hawks", "short_name": "HHK", "active": false}
	updated := decodeData[models.Club](t, mustStatus(t, ts.do(http.MethodPut, "/api/v1/clubs/"+club.ID, ts.adminToken, update), http.StatusOK))
	if updated.ShortName != "HHK" || updated.Active {
		t.Errorf("updated club = %+v", updated)
	}

	mustStatus(t, ts.do(http.MethodDelete, "/api/v1/clubs/"+club.ID, ts.adminToken, nil), http.StatusNoContent)
	mustStatus(t, ts.do(http.MethodGet, "/api/v1/clubs/"+club.ID, "", nil), http.StatusNotFound)
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	tests := []struct {
		name     string
		body     interface{}
		wantCode string
	}{
		{"missing fields", map[string]interface{}{"short_name": "X"}, ErrCodeValidationFailed},
		{"bad color", map[string]interface{}{"name": "A", "short_name": "AB", "colors": map[string]string{"primary": "blue"}}, ErrCodeValidationFailed},
		{"unknown field", `{"name":"A","short_name":"AB","mascot":"gull"}`, ErrCodeBadRequest},
		{"not json", `{"name":`, ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := mustStatus(t, ts.do(http.MethodPost, "/api/v1/clubs", ts.adminToken, tt.body), http.StatusBadRequest)
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Fatalf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
		})
	}

	env := mustStatus(t, ts.do(http.MethodPost, "/api/v1/clubs", ts.adminToken, map[string]interface{}{"short_name": "X"}), http.StatusBadRequest)
	details, ok := env.Error.Details.(map[string]interface{})
	if !ok || details["fields"] == nil {
		t.Errorf("validation details = %#v, want fields", env.Error.Details)
	}
}

func TestGameResult_UpdatesStandings(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	home := ts.createClub("Anchors", "ANC")
	away := ts.createClub("Bruisers", "BRU")

	season := decodeData[models.Season](t, mustStatus(t, ts.do(http.MethodPost, "/api/v1/seasons", ts.adminToken, map[string]interface{}{
		"name": "Season 1", "number": 1, "status": "active", "club_ids": []string{home.ID, away.ID},
	}), http.StatusCreated))

	game := decodeData[models.Game](t, mustStatus(t, ts.do(http.MethodPost, "/api/v1/games", ts.adminToken, map[string]interface{}{
		"season_id": season.ID, "home_club_id": home.ID, "away_club_id": away.ID,
		"scheduled_at": time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC),
	}), http.StatusCreated))
	if game.Status != models.GameScheduled {
		t.Fatalf("game status = %q", game.Status)
	}

	// Reading first caches the empty table; the result must replace it.
	warm := decodeData[[]models.StandingRow](t, mustStatus(t, ts.do(http.MethodGet, "/api/v1/seasons/"+season.ID+"/standings", "", nil), http.StatusOK))
	if len(warm) != 2 || warm[0].GP != 0 {
		t.Fatalf("standings before any result = %+v", warm)
	}

	env := mustStatus(t, ts.do(http.MethodPost, "/api/v1/games/"+game.ID+"/result", ts.adminToken, map[string]interface{}{
		"home_score": 2, "away_score": 2,
	}), http.StatusBadRequest)
	if !strings.Contains(env.Error.Message, "tie") {
		t.Errorf("tie error = %q", env.Error.Message)
	}

	final := decodeData[models.Game](t, mustStatus(t, ts.do(http.MethodPost, "/api/v1/games/"+game.ID+"/result", ts.adminToken, map[string]interface{}{
		"home_score": 3, "away_score": 2, "overtime": true,
	}), http.StatusOK))
	if final.Status != models.GameFinal {
		t.Fatalf("result status = %q", final.Status)
	}

	rows := decodeData[[]models.StandingRow](t, mustStatus(t, ts.do(http.MethodGet, "/api/v1/seasons/"+season.ID+"/standings", "", nil), http.StatusOK))
	if len(rows) != 2 {
		t.Fatalf("standings rows = %d, want 2", len(rows))
	}
	if rows[0].ClubID != home.ID || rows[0].W != 1 || rows[0].PTS != 2 {
		t.Errorf("leader = %+v", rows[0])
	}
	if rows[1].OTL != 1 || rows[1].PTS != 1 {
		t.Errorf("overtime loser = %+v", rows[1])
	}

	games := mustStatus(t, ts.do(http.MethodGet, "/api/v1/games?status=final&season="+season.ID, "", nil), http.StatusOK)
	if games.Meta.Pagination.Total != 1 {
		t.Errorf("final games = %d, want 1", games.Meta.Pagination.Total)
	}
	mustStatus(t, ts.do(http.MethodGet, "/api/v1/games?status=postponed", "", nil), http.StatusBadRequest)

	mustStatus(t, ts.do(http.MethodGet, "/api/v1/seasons/"+season.ID+"/leaders?category=pucks", "", nil), http.StatusBadRequest)
	mustStatus(t, ts.do(http.MethodGet, "/api/v1/seasons/"+season.ID+"/leaders", "", nil), http.StatusOK)
	mustStatus(t, ts.do(http.MethodGet, "/api/v1/seasons/"+season.ID+"/power-rankings", "", nil), http.StatusOK)
	mustStatus(t, ts.do(http.MethodGet, "/api/v1/seasons/"+season.ID+"/stats/skaters?scope=weekly", "", nil), http.StatusBadRequest)

	mustStatus(t, ts.do(http.MethodDelete, "/api/v1/clubs/"+home.ID, ts.adminToken, nil), http.StatusConflict)
}

func TestPlayoffs_SeedAndRecord(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	a := ts.createClub("Anchors", "ANC")
	b := ts.createClub("Bruisers", "BRU")
	season := decodeData[models.Season](t, mustStatus(t, ts.do(http.MethodPost, "/api/v1/seasons", ts.adminToken, map[string]interface{}{
		"name": "Season 1", "club_ids": []string{a.ID, b.ID},
	}), http.StatusCreated))

	mustStatus(t, ts.do(http.MethodPost, "/api/v1/playoffs", ts.adminToken, map[string]interface{}{
		"season_id": season.ID, "seeds": []string{a.ID, b.ID}, "series_lengths": []int{2},
	}), http.StatusBadRequest)

	p := decodeData[models.Playoff](t, mustStatus(t, ts.do(http.MethodPost, "/api/v1/playoffs", ts.adminToken, map[string]interface{}{
		"season_id": season.ID, "seeds": []string{a.ID, b.ID}, "series_lengths": []int{1},
	}), http.StatusCreated))
	if len(p.Rounds) != 1 || len(p.Rounds[0]) != 1 {
		t.Fatalf("rounds = %+v", p.Rounds)
	}
	seriesID := p.Rounds[0][0].ID

	done := decodeData[models.Playoff](t, mustStatus(t, ts.do(http.MethodPost,
		"/api/v1/playoffs/"+p.ID+"/series/"+seriesID+"/games", ts.adminToken,
		map[string]interface{}{"winner_club_id": b.ID, "game_id": "final-1"}), http.StatusCreated))
	if done.ChampionClubID != b.ID || done.Status != models.PlayoffCompleted {
		t.Errorf("playoff = %s champion %s, want completed with %s", done.Status, done.ChampionClubID, b.ID)
	}

	mustStatus(t, ts.do(http.MethodPost, "/api/v1/playoffs/"+p.ID+"/series/"+seriesID+"/games", ts.adminToken,
		map[string]interface{}{"winner_club_id": a.ID}), http.StatusConflict)

	undone := decodeData[models.Playoff](t, mustStatus(t, ts.do(http.MethodDelete,
		"/api/v1/playoffs/"+p.ID+"/series/"+seriesID+"/games/final-1", ts.adminToken, nil), http.StatusOK))
	if undone.ChampionClubID != "" {
		t.Errorf("champion after undo = %q", undone.ChampionClubID)
	}

	mustStatus(t, ts.do(http.MethodDelete, "/api/v1/playoffs/"+p.ID+"/series/nope/games/final-1", ts.adminToken, nil), http.StatusNotFound)
}

func TestArticles_DraftsHidden(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	draft := decodeData[models.Article](t, mustStatus(t, ts.do(http.MethodPost, "/api/v1/articles", ts.adminToken, map[string]interface{}{
		"title": "Trade Deadline Recap", "body": "Big moves.",
	}), http.StatusCreated))
	if draft.Slug != "trade-deadline-recap" || draft.Published {
		t.Fatalf("draft = %+v", draft)
	}

	anon := mustStatus(t, ts.do(http.MethodGet, "/api/v1/articles", "", nil), http.StatusOK)
	if anon.Meta.Pagination.Total != 0 {
		t.Errorf("anonymous sees %d articles, want 0", anon.Meta.Pagination.Total)
	}
	viewer := mustStatus(t, ts.do(http.MethodGet, "/api/v1/articles", ts.viewerToken, nil), http.StatusOK)
	if viewer.Meta.Pagination.Total != 0 {
		t.Errorf("viewer sees %d articles, want 0", viewer.Meta.Pagination.Total)
	}
	staff := mustStatus(t, ts.do(http.MethodGet, "/api/v1/articles", ts.adminToken, nil), http.StatusOK)
	if staff.Meta.Pagination.Total != 1 {
		t.Errorf("admin sees %d articles, want 1", staff.Meta.Pagination.Total)
	}
	mustStatus(t, ts.do(http.MethodGet, "/api/v1/articles/"+draft.Slug, "", nil), http.StatusNotFound)

	mustStatus(t, ts.do(http.MethodPut, "/api/v1/articles/"+draft.ID, ts.adminToken, map[string]interface{}{
		"title": "Trade Deadline Recap", "body": "Big moves.", "published": true,
	}), http.StatusOK)
	got := decodeData[models.Article](t, mustStatus(t, ts.do(http.MethodGet, "/api/v1/articles/"+draft.Slug, "", nil), http.StatusOK))
	if !got.Published || got.PublishedAt == nil {
		t.Errorf("published article = %+v", got)
	}

	mustStatus(t, ts.do(http.MethodPost, "/api/v1/articles", ts.adminToken, map[string]interface{}{
		"title": "x", "slug": "Not A Slug", "body": "y",
	}), http.StatusBadRequest)
}

func TestAuth_LoginMeLogout(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	mustStatus(t, ts.do(http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "commish", Password: "wrong-horse"}), http.StatusUnauthorized)

	rec := ts.do(http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "commish", Password: "correct-horse"})
	login := decodeData[LoginResponse](t, mustStatus(t, rec, http.StatusOK))
	if login.Token == "" || login.User.Role != models.RoleAdmin {
		t.Fatalf("login = %+v", login)
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), "token=") {
		t.Error("login did not set the token cookie")
	}
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Error("login response leaks the password hash")
	}

	me := decodeData[models.PublicUser](t, mustStatus(t, ts.do(http.MethodGet, "/api/v1/auth/me", login.Token, nil), http.StatusOK))
	if me.Username != "commish" {
		t.Errorf("me = %+v", me)
	}
	mustStatus(t, ts.do(http.MethodGet, "/api/v1/auth/me", "", nil), http.StatusUnauthorized)

	rec = ts.do(http.MethodPost, "/api/v1/auth/logout", "", nil)
	if rec.Code != http.StatusNoContent || !strings.Contains(rec.Header().Get("Set-Cookie"), "Max-Age=0") {
		t.Errorf("logout = %d %q", rec.Code, rec.Header().Get("Set-Cookie"))
	}
}

func TestAuth_Register(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	u := decodeData[models.PublicUser](t, mustStatus(t, ts.do(http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Username: "rookie", Email: "rookie@example.com", Password: "first-season",
	}), http.StatusCreated))
	if u.Role != models.RoleViewer {
		t.Errorf("registered role = %q, want viewer", u.Role)
	}
	mustStatus(t, ts.do(http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Username: "rookie", Email: "other@example.com", Password: "first-season",
	}), http.StatusConflict)

	cfg := testConfig()
	cfg.Security.RegistrationEnabled = false
	closed := newTestServerWith(t, cfg)
	mustStatus(t, closed.do(http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Username: "late", Email: "late@example.com", Password: "first-season",
	}), http.StatusForbidden)
}

func TestLogin_RateLimited(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Security.RateLimitDisabled = false
	cfg.Security.RateLimitReqs = 1000
	cfg.Security.LoginRateLimitReqs = 2
	ts := newTestServerWith(t, cfg)

	body := LoginRequest{Username: "commish", Password: "wrong-horse"}
	for i := 0; i < 2; i++ {
		mustStatus(t, ts.do(http.MethodPost, "/api/v1/auth/login", "", body), http.StatusUnauthorized)
	}
	env := mustStatus(t, ts.do(http.MethodPost, "/api/v1/auth/login", "", body), http.StatusTooManyRequests)
	if env.Error == nil || env.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("rate limit envelope = %+v", env.Error)
	}
}

func TestUsers_AdminOnly(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	mustStatus(t, ts.do(http.MethodGet, "/api/v1/users", ts.viewerToken, nil), http.StatusForbidden)
	rec := ts.do(http.MethodGet, "/api/v1/users", ts.adminToken, nil)
	users := decodeData[[]models.PublicUser](t, mustStatus(t, rec, http.StatusOK))
	if len(users) != 2 {
		t.Errorf("users = %d, want 2", len(users))
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("user list leaks password fields")
	}

	club := ts.createClub("Comets", "COM")
	mustStatus(t, ts.do(http.MethodPost, "/api/v1/users", ts.adminToken, map[string]interface{}{
		"username": "gm1", "email": "gm1@example.com", "role": "manager",
	}), http.StatusBadRequest)
	mustStatus(t, ts.do(http.MethodPost, "/api/v1/users", ts.adminToken, map[string]interface{}{
		"username": "gm1", "email": "gm1@example.com", "password": "pass-the-puck", "role": "manager",
	}), http.StatusBadRequest)
	created := decodeData[models.PublicUser](t, mustStatus(t, ts.do(http.MethodPost, "/api/v1/users", ts.adminToken, map[string]interface{}{
		"username": "gm1", "email": "gm1@example.com", "password": "pass-the-puck", "role": "manager", "club_id": club.ID,
	}), http.StatusCreated))
	if created.ClubID != club.ID {
		t.Errorf("manager club = %q", created.ClubID)
	}
}

func TestManager_OwnClubOnly(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	mine := ts.createClub("Anchors", "ANC")
	theirs := ts.createClub("Bruisers", "BRU")
	gm, err := ts.svc.CreateUser(context.Background(), league.System, league.UserInput{
		Username: "gm", Email: "gm@example.com", Password: "pass-the-puck", Role: models.RoleManager, ClubID: mine.ID,
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	token := ts.tokenFor(gm)

	player := map[string]interface{}{"gamertag": "Sniper", "position": "C", "number": 9, "club_id": mine.ID}
	mustStatus(t, ts.do(http.MethodPost, "/api/v1/players", token, player), http.StatusCreated)

	player["gamertag"] = "Ringer"
	player["club_id"] = theirs.ID
	mustStatus(t, ts.do(http.MethodPost, "/api/v1/players", token, player), http.StatusForbidden)

	mustStatus(t, ts.do(http.MethodPost, "/api/v1/clubs", token, map[string]interface{}{"name": "New", "short_name": "NEW"}), http.StatusForbidden)
	mustStatus(t, ts.do(http.MethodPost, "/api/v1/seasons", token, map[string]interface{}{"name": "S"}), http.StatusForbidden)

	player["position"] = "ZAMBONI"
	mustStatus(t, ts.do(http.MethodPost, "/api/v1/players", token, player), http.StatusBadRequest)

	roster := decodeData[[]models.Player](t, mustStatus(t, ts.do(http.MethodGet, "/api/v1/clubs/"+mine.ID+"/players", "", nil), http.StatusOK))
	if len(roster) != 1 || roster[0].Gamertag != "Sniper" {
		t.Errorf("roster = %+v", roster)
	}
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("caption", "ignored")
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func (ts *testServer) upload(path, token, field string, data []byte) *httptest.ResponseRecorder {
	ts.t.Helper()
	body, contentType := multipartBody(ts.t, field, "logo.png", data)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func TestUploads_SaveServeAndCleanup(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	mustStatus(t, ts.upload("/api/v1/uploads", ts.viewerToken, "file", pngData), http.StatusForbidden)
	mustStatus(t, ts.upload("/api/v1/uploads", ts.adminToken, "image", pngData), http.StatusBadRequest)
	mustStatus(t, ts.upload("/api/v1/uploads", ts.adminToken, "file", []byte("plain text")), http.StatusBadRequest)
	big := append(append([]byte{}, pngData...), bytes.Repeat([]byte{0}, 8192)...)
	mustStatus(t, ts.upload("/api/v1/uploads", ts.adminToken, "file", big), http.StatusRequestEntityTooLarge)

	file := decodeData[uploads.File](t, mustStatus(t, ts.upload("/api/v1/uploads", ts.adminToken, "file", pngData), http.StatusCreated))
	if !strings.HasPrefix(file.URL, "/api/v1/uploads/") || file.ContentType != "image/png" {
		t.Fatalf("file = %+v", file)
	}

	rec := ts.do(http.MethodGet, file.URL, "", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("serve = %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.Equal(rec.Body.Bytes(), pngData) {
		t.Error("served bytes differ from upload")
	}
	if rec := ts.do(http.MethodGet, "/api/v1/uploads/..%2Fsecret.png", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("traversal status = %d, want 404", rec.Code)
	}

	club := ts.createClub("Anchors", "ANC")
	withLogo := decodeData[models.Club](t, mustStatus(t, ts.upload("/api/v1/clubs/"+club.ID+"/logo", ts.adminToken, "file", pngData), http.StatusOK))
	if withLogo.LogoURL == "" {
		t.Fatal("logo url not set")
	}

	dry := decodeData[uploads.CleanupReport](t, mustStatus(t, ts.do(http.MethodPost, "/api/v1/admin/uploads/cleanup?dry_run=true", ts.adminToken, nil), http.StatusOK))
	if !dry.DryRun || dry.Scanned != 2 || dry.Referenced != 1 || len(dry.Orphans) != 1 || len(dry.Deleted) != 0 {
		t.Fatalf("dry run report = %+v", dry)
	}
	if dry.Orphans[0].Name != file.Name {
		t.Errorf("orphan = %s, want %s", dry.Orphans[0].Name, file.Name)
	}

	mustStatus(t, ts.do(http.MethodPost, "/api/v1/admin/uploads/cleanup", ts.viewerToken, nil), http.StatusForbidden)

	report := decodeData[uploads.CleanupReport](t, mustStatus(t, ts.do(http.MethodPost, "/api/v1/admin/uploads/cleanup", ts.adminToken, nil), http.StatusOK))
	if len(report.Deleted) != 1 || report.Deleted[0] != file.Name {
		t.Fatalf("cleanup report = %+v", report)
	}
	if rec := ts.do(http.MethodGet, withLogo.LogoURL, "", nil); rec.Code != http.StatusOK {
		t.Errorf("referenced logo status = %d, want 200", rec.Code)
	}
	if rec := ts.do(http.MethodGet, file.URL, "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("deleted orphan status = %d, want 404", rec.Code)
	}
}

func TestAdmin_CacheAndBackups(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	ts.cache.Set("season:s1:standings", []int{1})
	stats := decodeData[CacheStats](t, mustStatus(t, ts.do(http.MethodGet, "/api/v1/admin/cache", ts.adminToken, nil), http.StatusOK))
	if stats.TotalKeys != 1 || stats.Views["standings"] != 1 {
		t.Errorf("cache stats = %+v", stats)
	}
	mustStatus(t, ts.do(http.MethodDelete, "/api/v1/admin/cache", ts.adminToken, nil), http.StatusNoContent)
	if len(ts.cache.Keys()) != 0 {
		t.Error("cache not cleared")
	}

	mustStatus(t, ts.do(http.MethodGet, "/api/v1/admin/backups", ts.adminToken, nil), http.StatusServiceUnavailable)
	mustStatus(t, ts.do(http.MethodGet, "/api/v1/admin/cache", ts.viewerToken, nil), http.StatusForbidden)

	ts.createClub("Anchors", "ANC")
	evs := decodeData[[]models.AuditEvent](t, mustStatus(t, ts.do(http.MethodGet, "/api/v1/admin/audit?resource=clubs", ts.adminToken, nil), http.StatusOK))
	if len(evs) != 1 || evs[0].Action != "create" {
		t.Errorf("audit = %+v", evs)
	}
}

func TestListEndpoints_Paginate(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	for i := 1; i <= 3; i++ {
		mustStatus(t, ts.do(http.MethodPost, "/api/v1/seasons", ts.adminToken, map[string]interface{}{
			"name": fmt.Sprintf("Season %d", i), "number": i, "status": "upcoming",
		}), http.StatusCreated)
	}

	env := mustStatus(t, ts.do(http.MethodGet, "/api/v1/seasons?limit=2&offset=1", "", nil), http.StatusOK)
	if seasons := decodeData[[]models.Season](t, env); len(seasons) != 2 {
		t.Errorf("seasons page = %d, want 2", len(seasons))
	}
	if pg := env.Meta.Pagination; pg == nil || pg.Total != 3 || pg.Offset != 1 || pg.Limit != 2 || pg.HasMore {
		t.Errorf("seasons pagination = %+v", pg)
	}

	env = mustStatus(t, ts.do(http.MethodGet, "/api/v1/users?limit=1", ts.adminToken, nil), http.StatusOK)
	if users := decodeData[[]models.PublicUser](t, env); len(users) != 1 {
		t.Errorf("users page = %d, want 1", len(users))
	}
	if pg := env.Meta.Pagination; pg == nil || pg.Total != 2 || !pg.HasMore {
		t.Errorf("users pagination = %+v", pg)
	}

	env = mustStatus(t, ts.do(http.MethodGet, "/api/v1/admin/audit?resource=seasons&limit=1&offset=2", ts.adminToken, nil), http.StatusOK)
	if evs := decodeData[[]models.AuditEvent](t, env); len(evs) != 1 {
		t.Errorf("audit page = %d, want 1", len(evs))
	}
	if pg := env.Meta.Pagination; pg == nil || pg.Total != 3 || pg.HasMore {
		t.Errorf("audit pagination = %+v", pg)
	}

	for _, path := range []string{"/api/v1/playoffs", "/api/v1/rankings", "/api/v1/managers"} {
		env := mustStatus(t, ts.do(http.MethodGet, path+"?offset=5", "", nil), http.StatusOK)
		if pg := env.Meta.Pagination; pg == nil || pg.Total != 0 || pg.Offset != 5 {
			t.Errorf("%s pagination = %+v", path, pg)
		}
		mustStatus(t, ts.do(http.MethodGet, path+"?limit=0", "", nil), http.StatusBadRequest)
	}
}

func TestWebSocket_NoHub(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	mustStatus(t, ts.do(http.MethodGet, "/api/v1/ws", "", nil), http.StatusServiceUnavailable)
}
