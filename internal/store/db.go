// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/rs/zerolog"

	"github.com/tomtom215/rinkside/internal/logging"
	"github.com/tomtom215/rinkside/internal/metrics"
)

const (
	// gcDiscardRatio is the value-log discard ratio passed to RunValueLogGC.
	gcDiscardRatio = 0.5

	// maxTxnRetries bounds retries of badger.ErrConflict.
	maxTxnRetries = 5

	// restorePendingWrites is passed to badger's Load.
	restorePendingWrites = 256
)

// Config controls how the underlying BadgerDB is opened.
type Config struct {
	Path       string
	InMemory   bool
	SyncWrites bool
}

// DB wraps a BadgerDB handle.
type DB struct {
	db     *badger.DB
	closed atomic.Bool
	log    zerolog.Logger
}

// Open opens (or creates) the database described by cfg.
func Open(cfg Config) (*DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if strings.TrimSpace(cfg.Path) == "" {
			return nil, fmt.Errorf("%w: database path is required", ErrInvalid)
		}
		opts = badger.DefaultOptions(cfg.Path)
		opts.SyncWrites = cfg.SyncWrites
		opts.Compression = options.Snappy
	}

	log := logging.WithComponent("store")
	opts.Logger = &badgerLogger{log: log}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	log.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("Document store opened")

	return &DB{db: db, log: log}, nil
}

// Close closes the database. It is safe to call more than once.
func (d *DB) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	d.log.Info().Msg("Document store closed")
	return nil
}

// Ping verifies the database can serve a read transaction.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.check(ctx); err != nil {
		return err
	}
	return d.db.View(func(txn *badger.Txn) error { return nil })
}

func (d *DB) check(ctx context.Context) error {
	if d.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

// update runs fn in a read-write transaction, retrying badger transaction
// conflicts up to maxTxnRetries times.
func (d *DB) update(collection string, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt <= maxTxnRetries; attempt++ {
		err = d.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		logging.Debug().
			Str("collection", collection).
			Int("attempt", attempt+1).
			Msg("Retrying conflicting transaction")
		metrics.RecordTxnRetry(collection)
	}
	return fmt.Errorf("%w: transaction conflict after %d retries", ErrConflict, maxTxnRetries)
}

// Tx is a read-write transaction spanning collections. Use it through
// DB.Update and the collections' *Tx methods.
type Tx struct {
	txn *badger.Txn
}

// Update runs fn in one read-write transaction. Every document read through
// tx is checked for concurrent writes at commit; on a conflict the whole of
// fn is run again, so fn must not keep state from an earlier attempt.
func (d *DB) Update(ctx context.Context, fn func(tx *Tx) error) error {
	if err := d.check(ctx); err != nil {
		return err
	}
	return d.update("tx", func(txn *badger.Txn) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(&Tx{txn: txn})
	})
}

// GCOnce runs value-log GC until there is nothing left to rewrite.
func (d *DB) GCOnce() error {
	if d.closed.Load() {
		return ErrClosed
	}
	for {
		err := d.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// RunGC runs value-log GC every interval until ctx is cancelled.
func (d *DB) RunGC(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.GCOnce(); err != nil {
				if errors.Is(err, ErrClosed) {
					return err
				}
				d.log.Warn().Err(err).Msg("Value log GC failed")
			}
		}
	}
}

// Backup writes all versions newer than since to w in badger's stream
// format. Pass 0 for a full backup. It returns the version to use for the
// next incremental backup.
func (d *DB) Backup(w io.Writer, since uint64) (uint64, error) {
	if d.closed.Load() {
		return 0, ErrClosed
	}
	next, err := d.db.Backup(w, since)
	if err != nil {
		return 0, fmt.Errorf("backup: %w", err)
	}
	return next, nil
}

// Restore loads a backup produced by Backup. The database should be empty or
// the restored keys overwrite existing ones.
func (d *DB) Restore(r io.Reader) error {
	if d.closed.Load() {
		return ErrClosed
	}
	if err := d.db.Load(r, restorePendingWrites); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}

// Size returns the LSM and value-log sizes in bytes.
func (d *DB) Size() (lsm, vlog int64) {
	return d.db.Size()
}

// badgerLogger routes badger's internal logging to zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msgf(strings.TrimSpace(format), args...)
}
