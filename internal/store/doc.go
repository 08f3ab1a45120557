// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Package store is a BadgerDB-backed document store.

Documents are JSON-encoded (goccy/go-json) and kept under

	doc/<collection>/<id>

Unique secondary indexes map a normalized (trimmed, lower-cased) value to the
owning document ID:

	uniq/<collection>/<index>/<value> -> <id>

Index entries are written in the same transaction as the document, so a
document and its index entries are always consistent. Writes that would take
an index value owned by another document fail with ErrConflict.

Concurrent writers use last-write-wins semantics. BadgerDB transaction
conflicts (badger.ErrConflict) are retried a bounded number of times before
being surfaced as ErrConflict.

# Usage

	db, err := store.Open(store.Config{Path: "/data/rinkside"})
	if err != nil {
	    return err
	}
	defer db.Close()

	s := store.New(db)
	club := &models.Club{Name: "Harbor Hawks", ShortName: "HHK"}
	if err := s.Clubs.Insert(ctx, club); err != nil {
	    return err
	}

# Backup

Backup and Restore use BadgerDB's native stream format, so a full backup can
be restored into an empty database with Restore.
*/
package store
