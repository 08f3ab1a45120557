// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/tomtom215/rinkside/internal/logging"
)

// stopTimeout bounds how long Serve waits for a running backup on shutdown.
const stopTimeout = 30 * time.Second

// Scheduler runs Manager.Create on a cron schedule.
type Scheduler struct {
	manager  *Manager
	spec     string
	schedule cron.Schedule
	log      zerolog.Logger
}

// NewScheduler parses a standard five-field cron expression.
func NewScheduler(manager *Manager, spec string) (*Scheduler, error) {
	if manager == nil {
		return nil, fmt.Errorf("backup manager is required")
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse backup schedule %q: %w", spec, err)
	}
	return &Scheduler{
		manager:  manager,
		spec:     spec,
		schedule: schedule,
		log:      logging.WithComponent("backup-scheduler"),
	}, nil
}

// Next returns the first scheduled run after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Serve implements suture.Service.
func (s *Scheduler) Serve(ctx context.Context) error {
	logger := cronLogger{log: s.log}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() {
		if _, err := s.manager.Create(ctx); err != nil {
			s.log.Error().Err(err).Msg("Scheduled backup failed")
		}
	}))

	c.Start()
	s.log.Info().
		Str("schedule", s.spec).
		Time("next", s.Next(time.Now().UTC())).
		Msg("Backup scheduler started")

	<-ctx.Done()

	stopped := c.Stop()
	select {
	case <-stopped.Done():
	case <-time.After(stopTimeout):
		s.log.Warn().Msg("Backup still running at shutdown")
	}
	return ctx.Err()
}

// String implements fmt.Stringer for suture logging.
func (s *Scheduler) String() string {
	return "backup-scheduler"
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
