// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package services

import (
	"context"
	"errors"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/rinkside/internal/store"
)

// GCRunner is satisfied by *store.DB.
type GCRunner interface {
	RunGC(ctx context.Context, interval time.Duration) error
}

// StoreGCService runs the badger value-log GC loop.
type StoreGCService struct {
	db       GCRunner
	interval time.Duration
}

// NewStoreGCService creates the GC service. A non-positive interval turns
// the loop into a no-op that waits for shutdown.
func NewStoreGCService(db GCRunner, interval time.Duration) *StoreGCService {
	return &StoreGCService{db: db, interval: interval}
}

// Serve implements suture.Service. Once the store is closed the service
// asks not to be restarted.
func (s *StoreGCService) Serve(ctx context.Context) error {
	err := s.db.RunGC(ctx, s.interval)
	if errors.Is(err, store.ErrClosed) {
		return suture.ErrDoNotRestart
	}
	return err
}

// String implements fmt.Stringer for suture logs.
func (s *StoreGCService) String() string {
	return "store-gc"
}
