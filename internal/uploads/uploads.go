// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package uploads

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/rinkside/internal/config"
	"github.com/tomtom215/rinkside/internal/logging"
	"github.com/tomtom215/rinkside/internal/metrics"
)

var (
	// ErrTooLarge is returned when an upload exceeds MaxBytes.
	ErrTooLarge = errors.New("upload exceeds the size limit")

	// ErrEmpty is returned for a zero-byte upload.
	ErrEmpty = errors.New("upload is empty")

	// ErrUnsupportedType is returned when content is not an accepted image.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrInvalidName is returned for names that are not stored upload names.
	ErrInvalidName = errors.New("invalid upload name")

	// ErrNotFound is returned when the named upload does not exist.
	ErrNotFound = errors.New("upload not found")
)

// allowedTypes maps accepted content types to the stored extension.
var allowedTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// contentTypes maps stored extensions back to the served content type.
var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// tempPrefix marks in-progress uploads; List and FindOrphans skip them.
const tempPrefix = ".upload-"

// Config configures a Store.
type Config struct {
	Dir         string
	MaxBytes    int64
	URLPrefix   string
	OrphanGrace time.Duration
}

// ConfigFrom converts the server config section.
func ConfigFrom(c *config.UploadsConfig) Config {
	return Config{
		Dir:         c.Dir,
		MaxBytes:    c.MaxBytes,
		URLPrefix:   c.URLPrefix,
		OrphanGrace: c.OrphanGrace,
	}
}

// File describes a stored upload.
type File struct {
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"modified_at"`
}

// Store saves and serves uploads from one directory.
type Store struct {
	cfg Config
	log zerolog.Logger
	now func() time.Time
}

// New creates the upload directory if needed and returns a Store.
func New(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("uploads dir is required")
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 5 << 20
	}
	if cfg.URLPrefix == "" {
		cfg.URLPrefix = "/uploads"
	}
	cfg.URLPrefix = strings.TrimSuffix(cfg.URLPrefix, "/")
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{
		cfg: cfg,
		log: logging.WithComponent("uploads"),
		now: time.Now,
	}, nil
}

// Dir returns the upload directory.
func (s *Store) Dir() string { return s.cfg.Dir }

// MaxBytes returns the per-file size limit.
func (s *Store) MaxBytes() int64 { return s.cfg.MaxBytes }

// URL returns the public URL path of a stored name.
func (s *Store) URL(name string) string {
	return s.cfg.URLPrefix + "/" + name
}

// ValidName reports whether name has the shape of a stored upload:
// a UUID followed by one of the stored extensions.
func ValidName(name string) bool {
	ext := filepath.Ext(name)
	if _, ok := contentTypes[ext]; !ok {
		return false
	}
	stem := strings.TrimSuffix(name, ext)
	id, err := uuid.Parse(stem)
	return err == nil && id.String() == stem
}

// Save stores r under a fresh name. originalName is only logged. The
// content type is sniffed from the data.
func (s *Store) Save(originalName string, r io.Reader) (*File, error) {
	f, err := s.save(r)
	metrics.RecordUpload(err == nil)
	if err != nil {
		s.log.Debug().Err(err).Str("original_name", originalName).Msg("Upload rejected")
		return nil, err
	}
	s.log.Info().
		Str("name", f.Name).
		Str("original_name", originalName).
		Str("content_type", f.ContentType).
		Int64("size", f.Size).
		Msg("Upload stored")
	return f, nil
}

func (s *Store) save(r io.Reader) (*File, error) {
	tmp, err := os.CreateTemp(s.cfg.Dir, tempPrefix+"*")
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

	n, err := io.Copy(tmp, io.LimitReader(r, s.cfg.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}
	if n == 0 {
		return nil, ErrEmpty
	}
	if n > s.cfg.MaxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.cfg.MaxBytes)
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}
	mt, err := mimetype.DetectReader(tmp)
	if err != nil {
		return nil, fmt.Errorf("detect content type: %w", err)
	}
	contentType, ext, ok := acceptedType(mt)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	if err := tmp.Sync(); err != nil {
		return nil, fmt.Errorf("sync upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close upload: %w", err)
	}
	if err := os.Chmod(tmpName, 0o640); err != nil {
		return nil, fmt.Errorf("chmod upload: %w", err)
	}

	name := uuid.NewString() + ext
	if err := os.Rename(tmpName, filepath.Join(s.cfg.Dir, name)); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	committed = true

	return &File{
		Name:        name,
		URL:         s.URL(name),
		ContentType: contentType,
		Size:        n,
		ModTime:     s.now().UTC(),
	}, nil
}

// acceptedType walks the detected type and its parents, so aliases such as
// text/xml under svg resolve to an accepted image type.
func acceptedType(mt *mimetype.MIME) (contentType, ext string, ok bool) {
	for m := mt; m != nil; m = m.Parent() {
		for ct, e := range allowedTypes {
			if m.Is(ct) {
				return ct, e, true
			}
		}
	}
	return "", "", false
}

// path returns the on-disk path of a validated name.
func (s *Store) path(name string) (string, error) {
	if !ValidName(name) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.cfg.Dir, name), nil
}

// Stat returns a stored file's details.
func (s *Store) Stat(name string) (*File, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.fileFrom(info), nil
}

func (s *Store) fileFrom(info os.FileInfo) *File {
	name := info.Name()
	return &File{
		Name:        name,
		URL:         s.URL(name),
		ContentType: contentTypes[filepath.Ext(name)],
		Size:        info.Size(),
		ModTime:     info.ModTime().UTC(),
	}
}

// Delete removes a stored upload.
func (s *Store) Delete(name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}

// List returns every stored upload sorted by name. Temp files and anything
// else that is not a stored name are ignored.
func (s *Store) List() ([]File, error) {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("read uploads dir: %w", err)
	}
	files := make([]File, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !ValidName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		files = append(files, *s.fileFrom(info))
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// FindOrphans returns uploads not in referenced whose modification time is
// at least grace before now.
func (s *Store) FindOrphans(referenced map[string]bool, grace time.Duration, now time.Time) ([]File, error) {
	files, err := s.List()
	if err != nil {
		return nil, err
	}
	cutoff := now.Add(-grace)
	var orphans []File
	for _, f := range files {
		if referenced[f.Name] {
			continue
		}
		if f.ModTime.After(cutoff) {
			continue
		}
		orphans = append(orphans, f)
	}
	return orphans, nil
}

// CleanupReport is the result of Cleanup.
type CleanupReport struct {
	DryRun     bool     `json:"dry_run"`
	Scanned    int      `json:"scanned"`
	Referenced int      `json:"referenced"`
	Orphans    []File   `json:"orphans"`
	Deleted    []string `json:"deleted"`
	FreedBytes int64    `json:"freed_bytes"`
	Errors     []string `json:"errors,omitempty"`
}

// Cleanup deletes orphaned uploads older than the configured grace period.
// In dry-run mode nothing is deleted and Deleted stays empty.
func (s *Store) Cleanup(referenced map[string]bool, dryRun bool) (*CleanupReport, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	orphans, err := s.FindOrphans(referenced, s.cfg.OrphanGrace, s.now())
	if err != nil {
		return nil, err
	}

	report := &CleanupReport{
		DryRun:  dryRun,
		Scanned: len(all),
		Orphans: orphans,
		Deleted: []string{},
	}
	for _, f := range all {
		if referenced[f.Name] {
			report.Referenced++
		}
	}
	if report.Orphans == nil {
		report.Orphans = []File{}
	}

	if !dryRun {
		for _, f := range orphans {
			if err := s.Delete(f.Name); err != nil && !errors.Is(err, ErrNotFound) {
				report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", f.Name, err))
				continue
			}
			report.Deleted = append(report.Deleted, f.Name)
			report.FreedBytes += f.Size
		}
		metrics.UploadsCleaned.Add(float64(len(report.Deleted)))
	}

	s.log.Info().
		Bool("dry_run", dryRun).
		Int("scanned", report.Scanned).
		Int("orphans", len(report.Orphans)).
		Int("deleted", len(report.Deleted)).
		Msg("Upload cleanup finished")
	return report, nil
}

// ServeFile writes a stored upload. SVGs are served with a restrictive
// Content-Security-Policy since they can carry script.
func (s *Store) ServeFile(w http.ResponseWriter, r *http.Request, name string) {
	p, err := s.path(name)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	f, err := os.Open(p) //nolint:gosec // p is built from a validated name
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	ext := filepath.Ext(name)
	w.Header().Set("Content-Type", contentTypes[ext])
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if ext == ".svg" {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
	}
	http.ServeContent(w, r, name, info.ModTime(), f)
}
