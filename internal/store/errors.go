// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package store

import (
	"errors"
)

var (
	// ErrNotFound is returned when a document or index entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned for duplicate IDs, unique index violations,
	// and transaction conflicts that exhausted their retries.
	ErrConflict = errors.New("conflict")

	// ErrInvalid is returned for documents that cannot be stored.
	ErrInvalid = errors.New("invalid document")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("store closed")
)

// errLabel maps an error to a bounded metric label.
func errLabel(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalid):
		return "invalid"
	case errors.Is(err, ErrClosed):
		return "closed"
	}
	return "internal"
}
