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
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/rinkside/internal/config"
	"github.com/tomtom215/rinkside/internal/models"
	"github.com/tomtom215/rinkside/internal/store"
)

// fakeSource writes a fixed payload, or fails.
type fakeSource struct {
	data string
	err  error
}

func (f *fakeSource) Backup(w io.Writer, _ uint64) (uint64, error) {
	if f.err != nil {
		return 0, f.err
	}
	_, err := io.WriteString(w, f.data)
	return 7, err
}

// newTestManager returns a manager whose clock advances one second per call.
func newTestManager(t *testing.T, src Source, retain int) *Manager {
	t.Helper()
	m, err := NewManager(&config.BackupConfig{Dir: t.TempDir(), Retain: retain}, src)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	clock := time.Date(2026, 10, 14, 4, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return m
}

func TestNewManager(t *testing.T) {
	t.Parallel()

	src := &fakeSource{}
	tests := []struct {
		name    string
		cfg     *config.BackupConfig
		src     Source
		wantErr bool
	}{
		{"nil config", nil, src, true},
		{"nil source", &config.BackupConfig{Dir: t.TempDir()}, nil, true},
		{"empty dir", &config.BackupConfig{}, src, true},
		{"valid", &config.BackupConfig{Dir: filepath.Join(t.TempDir(), "a", "b"), Retain: 3}, src, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewManager(tt.cfg, tt.src)
			if tt.wantErr {
				if err == nil {
					t.Error("NewManager() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewManager() error = %v", err)
			}
			if _, err := os.Stat(m.Dir()); err != nil {
				t.Errorf("backup dir not created: %v", err)
			}
			if m.Retain() != 3 {
				t.Errorf("Retain() = %d, want 3", m.Retain())
			}
		})
	}
}

func TestNewManager_RetainFloor(t *testing.T) {
	t.Parallel()

	m, err := NewManager(&config.BackupConfig{Dir: t.TempDir()}, &fakeSource{})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if m.Retain() != 1 {
		t.Errorf("Retain() = %d, want 1", m.Retain())
	}
}

func TestCreate(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeSource{data: "badger-stream"}, 5)
	b, err := m.Create(context.Background())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if b.Name != "rinkside-20261014T040001.000Z.bak" {
		t.Errorf("Name = %q", b.Name)
	}
	if b.Size != int64(len("badger-stream")) {
		t.Errorf("Size = %d", b.Size)
	}
	if b.Version != 7 {
		t.Errorf("Version = %d, want 7", b.Version)
	}
	sum := sha256.Sum256([]byte("badger-stream"))
	if b.Checksum != hex.EncodeToString(sum[:]) {
		t.Errorf("Checksum = %q", b.Checksum)
	}

	data, err := os.ReadFile(b.Path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "badger-stream" {
		t.Errorf("file contents = %q", data)
	}
}

func TestCreate_SourceFailureLeavesNoFiles(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeSource{err: errors.New("disk on fire")}, 5)
	if _, err := m.Create(context.Background()); err == nil {
		t.Fatal("Create() expected error, got nil")
	}

	entries, err := os.ReadDir(m.Dir())
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("dir has %d entries after a failed backup", len(entries))
	}
}

func TestCreate_CanceledContext(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeSource{data: "x"}, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Create(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Create() error = %v, want context.Canceled", err)
	}
}

func TestCreate_SameInstantGetsDistinctNames(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeSource{data: "x"}, 5)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	a, err := m.Create(context.Background())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	b, err := m.Create(context.Background())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if a.Name == b.Name {
		t.Fatalf("both backups named %q", a.Name)
	}
	if b.Name != "rinkside-20260101T000000.001Z.bak" {
		t.Errorf("second name = %q", b.Name)
	}
}

func TestRetention(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeSource{data: "x"}, 2)
	var names []string
	for i := 0; i < 4; i++ {
		b, err := m.Create(context.Background())
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		names = append(names, b.Name)
	}

	// Unrelated files survive pruning.
	foreign := filepath.Join(m.Dir(), "notes.txt")
	if err := os.WriteFile(foreign, []byte("keep"), 0o600); err != nil {
		t.Fatal(err)
	}

	list, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() returned %d backups, want 2", len(list))
	}
	if list[0].Name != names[3] || list[1].Name != names[2] {
		t.Errorf("List() = %s, %s; want newest two %s, %s", list[0].Name, list[1].Name, names[3], names[2])
	}
	if !list[0].CreatedAt.After(list[1].CreatedAt) {
		t.Error("List() is not newest first")
	}

	removed, err := m.Prune()
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if len(removed) != 0 {
		t.Errorf("Prune() removed %v with nothing over the limit", removed)
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Errorf("foreign file removed: %v", err)
	}
}

func TestParseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ok   bool
	}{
		{"rinkside-20261014T040000.000Z.bak", true},
		{"rinkside-20261014T040000Z.bak", false},
		{"rinkside-20261014T040000.000Z.bak.tmp", false},
		{".rinkside-123", false},
		{"../rinkside-20261014T040000.000Z.bak", false},
		{"rinkside-20261399T040000.000Z.bak", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := parseName(tt.name); ok != tt.ok {
				t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
		})
	}
}

func TestCreateAndRestore_Badger(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srcDB, err := store.Open(store.Config{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = srcDB.Close() })
	src := store.New(srcDB)
	if err := src.Clubs.Insert(ctx, &models.Club{Name: "Harbour Hawks", ShortName: "HAW"}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	m := newTestManager(t, srcDB, 3)
	b, err := m.Create(ctx)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if b.Size == 0 {
		t.Fatal("backup is empty")
	}

	dstDB, err := store.Open(store.Config{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = dstDB.Close() })
	if err := m.Restore(ctx, b.Name, dstDB); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	dst := store.New(dstDB)
	club, err := dst.Clubs.FindUnique(ctx, store.IndexShortName, "haw")
	if err != nil {
		t.Fatalf("FindUnique() after restore error = %v", err)
	}
	if club.Name != "Harbour Hawks" {
		t.Errorf("restored club = %q", club.Name)
	}
}

func TestRestore_Errors(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeSource{}, 1)
	if err := m.Restore(context.Background(), "../../etc/passwd", nil); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Restore(traversal) error = %v, want ErrInvalidName", err)
	}
	if err := m.Restore(context.Background(), "rinkside-20200101T000000.000Z.bak", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("Restore(missing) error = %v, want ErrNotFound", err)
	}
}

func TestNewScheduler(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeSource{}, 1)
	if _, err := NewScheduler(nil, "0 4 * * *"); err == nil {
		t.Error("NewScheduler(nil) expected error")
	}
	if _, err := NewScheduler(m, "every day"); err == nil || !strings.Contains(err.Error(), "every day") {
		t.Errorf("NewScheduler(bad spec) error = %v", err)
	}

	s, err := NewScheduler(m, "0 4 * * *")
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	from := time.Date(2026, 10, 14, 5, 0, 0, 0, time.UTC)
	want := time.Date(2026, 10, 15, 4, 0, 0, 0, time.UTC)
	if got := s.Next(from); !got.Equal(want) {
		t.Errorf("Next() = %v, want %v", got, want)
	}
	if s.String() != "backup-scheduler" {
		t.Errorf("String() = %q", s.String())
	}
}

func TestScheduler_ServeRunsAndStops(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &fakeSource{data: "x"}, 10)
	s, err := NewScheduler(m, "@every 1s")
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		list, err := m.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(list) > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no scheduled backup within 5s")
		}
		time.Sleep(50 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
