// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Package uploads stores club logos and article images on local disk.

Files are saved as <uuid>.<ext> in a single flat directory. The extension
comes from the sniffed content type (gabriel-vasile/mimetype), never from the
client's file name, and only png, jpeg, gif, webp and svg are accepted. A
file is written to a temp file in the same directory and renamed into place,
so readers never see a partial upload.

Names are validated on every access; anything that is not a stored-name
shape (including "../" traversal) is rejected with ErrInvalidName.

# Orphan Cleanup

Uploads are referenced by URL from club logos and article covers. When a logo
is replaced the old file stays behind. FindOrphans lists files that no
document references and that are older than the grace period; Cleanup deletes
them, or only reports them in dry-run mode:

	refs, _ := svc.ReferencedUploads(ctx)
	report, err := store.Cleanup(refs, false)

The grace period protects a file uploaded moments before the document that
will point at it is saved.
*/
package uploads
