// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/rinkside/internal/auth"
	"github.com/tomtom215/rinkside/internal/authz"
	"github.com/tomtom215/rinkside/internal/middleware"
)

// apiPrefix is the mount point of the versioned API.
const apiPrefix = "/api/v1"

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	authn         *auth.Middleware
	authz         *authz.Middleware
	production    bool
}

// NewRouter creates a Router. chiMW may be nil for the defaults.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, authn *auth.Middleware, authzMW *authz.Middleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
		authn:         authn,
		authz:         authzMW,
		production:    handler.cfg.IsProduction(),
	}
}

// SetupChi builds the HTTP handler.
//
// Global middleware, in order: request ID, real IP, panic recovery, CORS,
// rate limiting, security headers, prometheus and access logging.
// Reads run behind optional authentication; writes need a token and a
// casbin decision.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(router.chiMiddleware.RateLimit())
	r.Use(middleware.SecurityHeaders(router.production))
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	uploadsPrefix := router.uploadsPrefix()
	if !strings.HasPrefix(uploadsPrefix, apiPrefix+"/") {
		r.Get(uploadsPrefix+"/{name}", router.handler.ServeUpload)
	}

	r.Route(apiPrefix, func(r chi.Router) {
		r.Route("/health", func(r chi.Router) {
			r.Get("/", router.handler.Health)
			r.Get("/live", router.handler.HealthLive)
			r.Get("/ready", router.handler.HealthReady)
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", router.handler.Login)
			r.With(router.chiMiddleware.RateLimitLogin()).Post("/register", router.handler.Register)
			r.Post("/logout", router.handler.Logout)
			r.With(router.authn.Authenticate).Get("/me", router.handler.Me)
		})

		r.Get("/ws", router.handler.WebSocket)

		if strings.HasPrefix(uploadsPrefix, apiPrefix+"/") {
			r.Get(strings.TrimPrefix(uploadsPrefix, apiPrefix)+"/{name}", router.handler.ServeUpload)
		}

		r.Group(router.publicRoutes)
		r.Group(router.protectedRoutes)
	})

	return r
}

// uploadsPrefix is the URL path upload files are served under.
func (router *Router) uploadsPrefix() string {
	if router.handler.uploads != nil {
		if u := router.handler.uploads.URL(""); u != "" {
			return strings.TrimRight(u, "/")
		}
	}
	if p := strings.TrimRight(router.handler.cfg.Uploads.URLPrefix, "/"); p != "" {
		return p
	}
	return apiPrefix + "/uploads"
}

// publicRoutes are readable by anyone. Claims, when present, unlock drafts.
func (router *Router) publicRoutes(r chi.Router) {
	h := router.handler
	r.Use(router.authn.Optional)

	r.Get("/clubs", h.ListClubs)
	r.Get("/clubs/{id}", h.GetClub)
	r.Get("/clubs/{id}/players", h.ClubPlayers)

	r.Get("/players", h.ListPlayers)
	r.Get("/players/{id}", h.GetPlayer)
	r.Get("/players/{id}/stats", h.PlayerStats)

	r.Get("/managers", h.ListManagers)
	r.Get("/managers/{id}", h.GetManager)

	r.Get("/seasons", h.ListSeasons)
	r.Get("/seasons/{id}", h.GetSeason)
	r.Get("/seasons/{id}/standings", h.Standings)
	r.Get("/seasons/{id}/stats/skaters", h.SkaterStats)
	r.Get("/seasons/{id}/stats/goalies", h.GoalieStats)
	r.Get("/seasons/{id}/leaders", h.Leaders)
	r.Get("/seasons/{id}/power-rankings", h.PowerRankings)
	r.Get("/leaders/categories", h.LeaderCategories)

	r.Get("/games", h.ListGames)
	r.Get("/games/{id}", h.GetGame)

	r.Get("/playoffs", h.ListPlayoffs)
	r.Get("/playoffs/{id}", h.GetPlayoff)

	r.Get("/rankings", h.ListRankings)
	r.Get("/rankings/{id}", h.GetRanking)

	r.Get("/articles", h.ListArticles)
	r.Get("/articles/{slugOrID}", h.GetArticle)
}

// protectedRoutes need a token and a policy decision.
func (router *Router) protectedRoutes(r chi.Router) {
	h := router.handler
	r.Use(router.authn.Authenticate)

	allow := router.authz.Authorize
	write := func(resource string) func(http.Handler) http.Handler {
		return allow(resource, authz.ActionWrite)
	}
	del := func(resource string) func(http.Handler) http.Handler {
		return allow(resource, authz.ActionDelete)
	}

	r.With(write(authz.ResourceClubs)).Post("/clubs", h.CreateClub)
	r.With(write(authz.ResourceClubs)).Put("/clubs/{id}", h.UpdateClub)
	r.With(del(authz.ResourceClubs)).Delete("/clubs/{id}", h.DeleteClub)
	r.With(write(authz.ResourceClubs), write(authz.ResourceUploads)).Post("/clubs/{id}/logo", h.UploadClubLogo)

	r.With(write(authz.ResourcePlayers)).Post("/players", h.CreatePlayer)
	r.With(write(authz.ResourcePlayers)).Put("/players/{id}", h.UpdatePlayer)
	r.With(del(authz.ResourcePlayers)).Delete("/players/{id}", h.DeletePlayer)

	r.With(write(authz.ResourceManagers)).Post("/managers", h.CreateManager)
	r.With(write(authz.ResourceManagers)).Put("/managers/{id}", h.UpdateManager)
	r.With(del(authz.ResourceManagers)).Delete("/managers/{id}", h.DeleteManager)

	r.With(write(authz.ResourceSeasons)).Post("/seasons", h.CreateSeason)
	r.With(write(authz.ResourceSeasons)).Put("/seasons/{id}", h.UpdateSeason)
	r.With(del(authz.ResourceSeasons)).Delete("/seasons/{id}", h.DeleteSeason)

	r.With(write(authz.ResourceGames)).Post("/games", h.CreateGame)
	r.With(write(authz.ResourceGames)).Put("/games/{id}", h.UpdateGame)
	r.With(del(authz.ResourceGames)).Delete("/games/{id}", h.DeleteGame)
	r.With(write(authz.ResourceGames)).Post("/games/{id}/result", h.RecordResult)

	r.With(write(authz.ResourcePlayoffs)).Post("/playoffs", h.CreatePlayoff)
	r.With(del(authz.ResourcePlayoffs)).Delete("/playoffs/{id}", h.DeletePlayoff)
	r.With(write(authz.ResourcePlayoffs)).Put("/playoffs/{id}/seeds", h.ReseedPlayoff)
	r.With(write(authz.ResourcePlayoffs)).Post("/playoffs/{id}/series/{seriesID}/games", h.RecordSeriesGame)
	r.With(write(authz.ResourcePlayoffs)).Delete("/playoffs/{id}/series/{seriesID}/games/{gameID}", h.UndoSeriesGame)

	r.With(write(authz.ResourceRankings)).Post("/rankings", h.CreateRanking)
	r.With(write(authz.ResourceRankings)).Put("/rankings/{id}", h.UpdateRanking)
	r.With(del(authz.ResourceRankings)).Delete("/rankings/{id}", h.DeleteRanking)

	r.With(write(authz.ResourceArticles)).Post("/articles", h.CreateArticle)
	r.With(write(authz.ResourceArticles)).Put("/articles/{id}", h.UpdateArticle)
	r.With(del(authz.ResourceArticles)).Delete("/articles/{id}", h.DeleteArticle)

	r.Route("/users", func(r chi.Router) {
		r.With(allow(authz.ResourceUsers, authz.ActionRead)).Get("/", h.ListUsers)
		r.With(allow(authz.ResourceUsers, authz.ActionRead)).Get("/{id}", h.GetUser)
		r.With(write(authz.ResourceUsers)).Post("/", h.CreateUser)
		r.With(write(authz.ResourceUsers)).Put("/{id}", h.UpdateUser)
		r.With(del(authz.ResourceUsers)).Delete("/{id}", h.DeleteUser)
	})

	r.With(write(authz.ResourceUploads)).Post("/uploads", h.Upload)

	r.Route("/admin", func(r chi.Router) {
		r.Use(allow(authz.ResourceAdmin, authz.ActionRead))
		r.Get("/uploads", h.ListUploads)
		r.With(write(authz.ResourceAdmin)).Post("/uploads/cleanup", h.CleanupUploads)
		r.Get("/backups", h.ListBackups)
		r.With(write(authz.ResourceAdmin)).Post("/backups", h.CreateBackup)
		r.Get("/audit", h.ListAudit)
		r.Get("/cache", h.GetCacheStats)
		r.With(write(authz.ResourceAdmin)).Delete("/cache", h.ClearCache)
	})
}
