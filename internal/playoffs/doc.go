// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Package playoffs seeds and advances single-elimination brackets.

Brackets are sized to the next power of two. Round-one pairings follow the
standard seeding order, so seeds 1 and 2 can only meet in the final:

	size 8: 1v8, 4v5, 2v7, 3v6

Seeds beyond the field size are byes; a seed facing a bye advances
immediately. Series are identified as r<round>s<index> with 1-based rounds and
0-based indexes. The winner of series (r, i) moves to series (r+1, i/2), in the
top slot when i is even and the bottom slot otherwise.

Every function operates in place on a *models.Playoff; callers persist the
result.
*/
package playoffs
