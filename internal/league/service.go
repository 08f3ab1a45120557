// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package league

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/rinkside/internal/events"
	"github.com/tomtom215/rinkside/internal/logging"
	"github.com/tomtom215/rinkside/internal/models"
	"github.com/tomtom215/rinkside/internal/store"
)

// Config holds the league rules applied by Service.
type Config struct {
	Points              models.PointsRule
	DefaultSeriesLength int

	// BcryptCost is used for new password hashes; zero uses the auth default.
	BcryptCost int

	// RegistrationEnabled allows Register to create viewer accounts.
	RegistrationEnabled bool

	// UploadsURLPrefix is stripped from logo and cover URLs to find the
	// upload file they point at.
	UploadsURLPrefix string
}

// Publisher delivers domain events. *events.Bus implements it.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// ViewCache stores derived views. *cache.Cache implements it.
type ViewCache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	DeletePrefix(prefix string) int
}

// Actor is the authenticated caller of a write.
type Actor struct {
	UserID   string
	Username string
	Role     string
	ClubID   string
}

// System is the actor used for bootstrap and maintenance writes.
var System = Actor{Username: "system", Role: models.RoleAdmin}

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// IsStaff reports whether the actor is an admin or a manager.
func (a Actor) IsStaff() bool { return models.IsStaff(a.Role) }

// Manages reports whether the actor may edit clubID's data.
func (a Actor) Manages(clubID string) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == models.RoleManager && a.ClubID != "" && a.ClubID == clubID
}

// Service applies league rules on top of the document store.
type Service struct {
	store  *store.Store
	cfg    Config
	events Publisher
	cache  ViewCache
	views  viewGenerations
	log    zerolog.Logger
	now    func() time.Time
}

// NewService creates a Service. events and cache may be nil.
func NewService(st *store.Store, cfg Config, pub Publisher, cache ViewCache) *Service {
	if cfg.DefaultSeriesLength <= 0 {
		cfg.DefaultSeriesLength = 7
	}
	if cfg.Points == (models.PointsRule{}) {
		cfg.Points = models.PointsRule{Win: 2, OTL: 1}
	}
	if cache == nil {
		cache = noCache{}
	}
	return &Service{
		store:  st,
		cfg:    cfg,
		events: pub,
		cache:  cache,
		log:    logging.WithComponent("league"),
		now:    time.Now,
	}
}

// Store returns the underlying store.
func (s *Service) Store() *store.Store { return s.store }

// viewTopics are the event topics whose writes change derived season views.
var viewTopics = map[string]bool{
	events.TopicGameRecorded:   true,
	events.TopicGameDeleted:    true,
	events.TopicPlayoffUpdated: true,
	events.TopicSeasonUpdated:  true,
}

// publish sends an event; failures are logged only. Views the write changed
// are invalidated first, so a read after the write never sees them.
func (s *Service) publish(ctx context.Context, topic, seasonID, resourceID string, payload interface{}) {
	if viewTopics[topic] {
		s.invalidate(seasonID)
	}
	if s.events == nil {
		return
	}
	e := events.NewEvent(topic, seasonID, resourceID, payload)
	if err := s.events.Publish(ctx, e); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("topic", topic).Str("resource_id", resourceID).Msg("Failed to publish event")
	}
}

// audit records a mutation by actor; failures are logged only.
func (s *Service) audit(ctx context.Context, actor Actor, action, resource, resourceID string, details map[string]interface{}) {
	ev := &models.AuditEvent{
		Actor:      actor.Username,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		At:         s.now().UTC(),
		Details:    details,
	}
	if err := s.store.Audit.Insert(ctx, ev); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("action", action).Str("resource", resource).Msg("Failed to write audit event")
		return
	}
	logging.Ctx(ctx).Info().
		Str("actor", actor.Username).
		Str("action", action).
		Str("resource", resource).
		Str("resource_id", resourceID).
		Msg("Audit")
}

// ListAudit returns the newest audit events first, at most limit (0 means all).
func (s *Service) ListAudit(ctx context.Context, resource string, limit int) ([]*models.AuditEvent, error) {
	evs, err := s.store.Audit.List(ctx, func(e *models.AuditEvent) bool {
		return resource == "" || e.Resource == resource
	})
	if err != nil {
		return nil, err
	}
	sortNewest(evs, func(e *models.AuditEvent) time.Time { return e.At })
	if limit > 0 && len(evs) > limit {
		evs = evs[:limit]
	}
	return evs, nil
}

// requireAdmin returns ErrForbidden unless actor is an admin.
func requireAdmin(actor Actor) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

type noCache struct{}

func (noCache) Get(string) (interface{}, bool) { return nil, false }
func (noCache) Set(string, interface{})        {}
func (noCache) DeletePrefix(string) int        { return 0 }

// viewGenerations counts invalidations per season. A view computed across an
// invalidation is not stored, so a slow reader cannot put back a view built
// from games that were changed while it ran.
type viewGenerations struct {
	mu     sync.Mutex
	all    uint64
	season map[string]uint64
}

type viewGeneration struct{ all, season uint64 }

func (v *viewGenerations) current(seasonID string) viewGeneration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.currentLocked(seasonID)
}

func (v *viewGenerations) currentLocked(seasonID string) viewGeneration {
	return viewGeneration{all: v.all, season: v.season[seasonID]}
}

// invalidate drops the cached views of seasonID, or of every season when
// seasonID is empty.
func (s *Service) invalidate(seasonID string) {
	v := &s.views
	v.mu.Lock()
	defer v.mu.Unlock()
	prefix := SeasonCacheKey(seasonID)
	if seasonID == "" {
		v.all++
		prefix = seasonCachePrefix
	} else {
		if v.season == nil {
			v.season = make(map[string]uint64)
		}
		v.season[seasonID]++
	}
	n := s.cache.DeletePrefix(prefix)
	s.log.Debug().Str("season_id", seasonID).Int("removed", n).Msg("Invalidated views")
}

// storeView caches v under key unless seasonID's views were invalidated
// since gen was taken.
func (s *Service) storeView(seasonID string, gen viewGeneration, key string, v interface{}) {
	s.views.mu.Lock()
	defer s.views.mu.Unlock()
	if s.views.currentLocked(seasonID) == gen {
		s.cache.Set(key, v)
	}
}
