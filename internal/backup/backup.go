// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/rinkside/internal/config"
	"github.com/tomtom215/rinkside/internal/logging"
	"github.com/tomtom215/rinkside/internal/metrics"
)

const (
	filePrefix = "rinkside-"
	fileSuffix = ".bak"
	tempPrefix = ".rinkside-"

	// timeLayout keeps names lexically sortable.
	timeLayout = "20060102T150405.000Z"
)

var namePattern = regexp.MustCompile(`^rinkside-(\d{8}T\d{6}\.\d{3}Z)\.bak$`)

// ErrNotFound is returned when a named backup does not exist.
var ErrNotFound = errors.New("backup not found")

// ErrInvalidName is returned for names that are not backup file names.
var ErrInvalidName = errors.New("invalid backup name")

// Source is the database being backed up. *store.DB satisfies it.
type Source interface {
	Backup(w io.Writer, since uint64) (uint64, error)
}

// Restorer loads a backup stream. *store.DB satisfies it.
type Restorer interface {
	Restore(r io.Reader) error
}

// Backup describes one backup file.
type Backup struct {
	Name      string    `json:"name"`
	Path      string    `json:"-"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	Checksum  string    `json:"sha256,omitempty"`
	Version   uint64    `json:"version,omitempty"`
	Duration  string    `json:"duration,omitempty"`
}

// Manager creates, lists and prunes backups in one directory.
type Manager struct {
	dir    string
	retain int
	src    Source

	// mu serializes Create and Prune.
	mu  sync.Mutex
	now func() time.Time
	log zerolog.Logger
}

// NewManager creates the backup directory and returns a Manager.
func NewManager(cfg *config.BackupConfig, src Source) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("backup configuration is required")
	}
	if src == nil {
		return nil, fmt.Errorf("backup source is required")
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("backup dir is required")
	}
	retain := cfg.Retain
	if retain < 1 {
		retain = 1
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	return &Manager{
		dir:    cfg.Dir,
		retain: retain,
		src:    src,
		now:    time.Now,
		log:    logging.WithComponent("backup"),
	}, nil
}

// Dir returns the backup directory.
func (m *Manager) Dir() string { return m.dir }

// Retain returns how many backups are kept.
func (m *Manager) Retain() int { return m.retain }

// Create writes a full backup and prunes old ones. A prune failure is
// logged; the new backup is still returned.
func (m *Manager) Create(ctx context.Context) (b *Backup, err error) {
	defer func() { metrics.RecordBackup(err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.now()
	b, err = m.write(start.UTC())
	if err != nil {
		m.log.Error().Err(err).Msg("Backup failed")
		return nil, err
	}
	b.Duration = time.Since(start).Round(time.Millisecond).String()

	m.log.Info().
		Str("name", b.Name).
		Int64("size", b.Size).
		Uint64("version", b.Version).
		Str("duration", b.Duration).
		Msg("Backup created")

	if removed, err := m.pruneLocked(); err != nil {
		m.log.Warn().Err(err).Msg("Backup retention failed")
	} else if len(removed) > 0 {
		m.log.Info().Strs("removed", removed).Msg("Old backups pruned")
	}
	return b, nil
}

func (m *Manager) write(at time.Time) (*Backup, error) {
	name := m.freeName(at)

	tmp, err := os.CreateTemp(m.dir, tempPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	hash := sha256.New()
	counter := &countingWriter{}
	version, err := m.src.Backup(io.MultiWriter(tmp, hash, counter), 0)
	if err != nil {
		return nil, err
	}
	if err := tmp.Sync(); err != nil {
		return nil, fmt.Errorf("sync backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close backup: %w", err)
	}

	path := filepath.Join(m.dir, name)
	if err := os.Rename(tmpName, path); err != nil {
		return nil, fmt.Errorf("store backup: %w", err)
	}
	committed = true

	return &Backup{
		Name:      name,
		Path:      path,
		Size:      counter.n,
		CreatedAt: at,
		Checksum:  hex.EncodeToString(hash.Sum(nil)),
		Version:   version,
	}, nil
}

// freeName returns a backup name for at, stepping forward a millisecond while
// the name is taken.
func (m *Manager) freeName(at time.Time) string {
	for {
		name := filePrefix + at.Format(timeLayout) + fileSuffix
		if _, err := os.Stat(filepath.Join(m.dir, name)); errors.Is(err, os.ErrNotExist) {
			return name
		}
		at = at.Add(time.Millisecond)
	}
}

type countingWriter struct{ n int64 }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

// List returns backups newest first. Checksums are not computed.
func (m *Manager) List() ([]Backup, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	backups := make([]Backup, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		at, ok := parseName(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Backup{
			Name:      e.Name(),
			Path:      filepath.Join(m.dir, e.Name()),
			Size:      info.Size(),
			CreatedAt: at,
		})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].Name > backups[j].Name })
	return backups, nil
}

func parseName(name string) (time.Time, bool) {
	match := namePattern.FindStringSubmatch(name)
	if match == nil {
		return time.Time{}, false
	}
	at, err := time.Parse(timeLayout, match[1])
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

// Prune deletes all but the newest Retain backups and returns the removed
// names.
func (m *Manager) Prune() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pruneLocked()
}

func (m *Manager) pruneLocked() ([]string, error) {
	backups, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(backups) <= m.retain {
		return nil, nil
	}
	var removed []string
	var errs []error
	for _, b := range backups[m.retain:] {
		if err := os.Remove(b.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", b.Name, err))
			continue
		}
		removed = append(removed, b.Name)
	}
	return removed, errors.Join(errs...)
}

// Restore loads the named backup into dst.
func (m *Manager) Restore(ctx context.Context, name string, dst Restorer) error {
	if _, ok := parseName(name); !ok {
		return ErrInvalidName
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(filepath.Join(m.dir, name)) //nolint:gosec // name matched namePattern
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := dst.Restore(f); err != nil {
		return err
	}
	m.log.Info().Str("name", name).Msg("Backup restored")
	return nil
}
