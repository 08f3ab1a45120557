// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

// Package backup writes BadgerDB backups to local disk on a cron schedule.
//
// # Overview
//
// A backup is one file holding badger's native stream format, as produced by
// store.DB.Backup with since=0:
//
//	<dir>/rinkside-20261014T040000.000Z.bak
//
// The timestamp in the name is UTC with millisecond precision, so names sort
// in creation order. Each file is written to a hidden temp file and renamed
// into place once it has been synced, and its SHA-256 is reported on the
// returned Backup.
//
// # Retention
//
// After every successful Create the manager keeps the newest Retain backups
// and deletes the rest. Files in the directory that do not match the backup
// name pattern are never touched.
//
// # Scheduling
//
// Scheduler runs Manager.Create on a standard five-field cron expression
// (robfig/cron/v3). It implements suture.Service, so the supervisor owns its
// lifecycle:
//
//	mgr, _ := backup.NewManager(&cfg.Backup, db)
//	sched, _ := backup.NewScheduler(mgr, cfg.Backup.Schedule)
//	tree.AddDataService(sched)
//
// Overlapping runs are skipped rather than queued.
//
// # Restore
//
// Restore loads a named backup into an empty database. It is not exposed
// over HTTP.
package backup
