// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package models

import (
	"time"
)

// Document is implemented by every stored type (through an embedded Base).
type Document interface {
	DocumentID() string
	SetDocumentID(id string)
	CreatedTime() time.Time
	SetCreatedTime(t time.Time)
	// Stamp sets UpdatedAt, and CreatedAt when it is still zero.
	Stamp(now time.Time)
}

// Base holds the fields common to all documents.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentID returns the document ID.
func (b *Base) DocumentID() string { return b.ID }

// SetDocumentID sets the document ID.
func (b *Base) SetDocumentID(id string) { b.ID = id }

// CreatedTime returns when the document was first stored.
func (b *Base) CreatedTime() time.Time { return b.CreatedAt }

// SetCreatedTime overrides CreatedAt.
func (b *Base) SetCreatedTime(t time.Time) { b.CreatedAt = t }

// Stamp updates timestamps for a write at now.
func (b *Base) Stamp(now time.Time) {
	now = now.UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}
