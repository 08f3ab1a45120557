// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package playoffs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/rinkside/internal/models"
)

func clubs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("c%d", i+1)
	}
	return ids
}

// win records wins for club in the series until it is decided.
func sweep(t *testing.T, p *models.Playoff, seriesID, club string) {
	t.Helper()
	s := p.FindSeries(seriesID)
	require.NotNil(t, s)
	for i := 0; !s.IsClosed(); i++ {
		require.NoError(t, RecordGame(p, seriesID, club, fmt.Sprintf("%s-%s-%d", seriesID, club, i)))
	}
}

func TestBracketOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		size int
		want []int
	}{
		{2, []int{1, 2}},
		{4, []int{1, 4, 2, 3}},
		{8, []int{1, 8, 4, 5, 2, 7, 3, 6}},
		{16, []int{1, 16, 8, 9, 4, 13, 5, 12, 2, 15, 7, 10, 3, 14, 6, 11}},
		{6, nil},
		{1, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BracketOrder(tt.size), "size %d", tt.size)
	}
}

func TestBracketOrder_TopSeedsMeetInFinal(t *testing.T) {
	t.Parallel()

	order := BracketOrder(16)
	half := len(order) / 2
	assert.Contains(t, order[:half], 1)
	assert.Contains(t, order[half:], 2)
}

func TestNextPowerOfTwo(t *testing.T) {
	t.Parallel()

	cases := map[int]int{0: 2, 1: 2, 2: 2, 3: 4, 5: 8, 8: 8, 9: 16}
	for n, want := range cases {
		assert.Equal(t, want, NextPowerOfTwo(n), "n=%d", n)
	}
}

func TestNew_FullBracket(t *testing.T) {
	t.Parallel()

	p, err := New(clubs(8), []int{7})
	require.NoError(t, err)

	assert.Equal(t, 8, p.BracketSize)
	assert.Equal(t, models.PlayoffPending, p.Status)
	require.Len(t, p.Rounds, 3)
	assert.Len(t, p.Rounds[0], 4)
	assert.Len(t, p.Rounds[1], 2)
	assert.Len(t, p.Rounds[2], 1)
	assert.Equal(t, []int{4, 4, 4}, p.WinsNeeded)

	first := p.Rounds[0][0]
	assert.Equal(t, "r1s0", first.ID)
	assert.Equal(t, "c1", first.Top.ClubID)
	assert.Equal(t, 1, first.Top.Seed)
	assert.Equal(t, "c8", first.Bottom.ClubID)
	assert.Equal(t, 8, first.Bottom.Seed)

	assert.Equal(t, 4, p.Rounds[0][1].Top.Seed)
	assert.Equal(t, 5, p.Rounds[0][1].Bottom.Seed)
	assert.Equal(t, "r3s0", p.Rounds[2][0].ID)
}

func TestNew_SeriesLengthsPerRound(t *testing.T) {
	t.Parallel()

	p, err := New(clubs(8), []int{3, 5})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 3}, p.WinsNeeded, "last length repeats")
	assert.Equal(t, 2, p.Rounds[0][0].WinsNeeded)
	assert.Equal(t, 3, p.Rounds[2][0].WinsNeeded)
}

func TestNew_Byes(t *testing.T) {
	t.Parallel()

	p, err := New(clubs(6), []int{1})
	require.NoError(t, err)
	assert.Equal(t, 8, p.BracketSize)

	// 1v8 and 2v7 are byes
	bye1 := p.FindSeries("r1s0")
	assert.Nil(t, bye1.Bottom)
	assert.Equal(t, "c1", bye1.WinnerClubID)
	bye2 := p.FindSeries("r1s2")
	assert.Nil(t, bye2.Bottom)
	assert.Equal(t, "c2", bye2.WinnerClubID)

	// Seeds advanced into round two
	assert.Equal(t, "c1", p.FindSeries("r2s0").Top.ClubID)
	assert.Nil(t, p.FindSeries("r2s0").Bottom)
	assert.Equal(t, "c2", p.FindSeries("r2s1").Top.ClubID)

	assert.Equal(t, models.PlayoffPending, p.Status)
	assert.Equal(t, 1, CurrentRound(p))
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := New([]string{"only"}, []int{7})
	assert.ErrorIs(t, err, ErrTooFewTeams)

	_, err = New([]string{"a", "b", "a"}, []int{7})
	assert.ErrorIs(t, err, ErrDuplicateSeed)

	_, err = New([]string{"a", ""}, []int{7})
	assert.ErrorIs(t, err, ErrDuplicateSeed)

	_, err = New(clubs(4), []int{4})
	assert.ErrorIs(t, err, ErrInvalidSeriesLength)

	_, err = New(clubs(4), nil)
	assert.ErrorIs(t, err, ErrInvalidSeriesLength)
}

func TestRecordGame_AdvancesWinner(t *testing.T) {
	t.Parallel()

	p, err := New(clubs(4), []int{3})
	require.NoError(t, err)

	require.NoError(t, RecordGame(p, "r1s0", "c4", "g1"))
	assert.Equal(t, models.PlayoffInProgress, p.Status)
	s := p.FindSeries("r1s0")
	assert.Equal(t, 1, s.BottomWins)
	assert.False(t, s.IsClosed())

	require.NoError(t, RecordGame(p, "r1s0", "c1", "g2"))
	require.NoError(t, RecordGame(p, "r1s0", "c4", "g3"))
	assert.Equal(t, "c4", s.WinnerClubID)

	final := p.FindSeries("r2s0")
	require.NotNil(t, final.Top)
	assert.Equal(t, "c4", final.Top.ClubID)
	assert.Equal(t, 4, final.Top.Seed)
	assert.Nil(t, final.Bottom)

	// Index 1 feeds the bottom slot
	sweep(t, p, "r1s1", "c3")
	assert.Equal(t, "c3", final.Bottom.ClubID)
	assert.Equal(t, 2, CurrentRound(p))

	sweep(t, p, "r2s0", "c3")
	assert.Equal(t, models.PlayoffCompleted, p.Status)
	assert.Equal(t, "c3", Champion(p))
	assert.Equal(t, 0, CurrentRound(p))
}

func TestRecordGame_Errors(t *testing.T) {
	t.Parallel()

	p, err := New(clubs(3), []int{1})
	require.NoError(t, err)

	assert.ErrorIs(t, RecordGame(p, "r9s9", "c1", "g"), ErrSeriesNotFound)
	assert.ErrorIs(t, RecordGame(p, "r2s0", "c1", "g"), ErrSeriesNotReady)
	assert.ErrorIs(t, RecordGame(p, "r1s0", "c1", "g"), ErrSeriesNotReady, "bye series has no opponent")
	assert.ErrorIs(t, RecordGame(p, "r1s1", "c1", "g"), ErrNotParticipant)
	assert.ErrorIs(t, RecordGame(p, "r1s1", "c2", ""), ErrGameNotFound)

	require.NoError(t, RecordGame(p, "r1s1", "c2", "g1"))
	assert.ErrorIs(t, RecordGame(p, "r1s1", "c3", "g2"), ErrSeriesClosed)
	assert.ErrorIs(t, RecordGame(p, "r2s0", "c1", "g1"), ErrDuplicateGame)
}

func TestUndoGame(t *testing.T) {
	t.Parallel()

	p, err := New(clubs(4), []int{3})
	require.NoError(t, err)

	require.NoError(t, RecordGame(p, "r1s0", "c1", "g1"))
	require.NoError(t, RecordGame(p, "r1s0", "c1", "g2"))
	require.Equal(t, "c1", p.FindSeries("r2s0").Top.ClubID)

	// Undo the clinching game pulls the winner back
	require.NoError(t, UndoGame(p, "r1s0", "g2"))
	s := p.FindSeries("r1s0")
	assert.Equal(t, 1, s.TopWins)
	assert.Empty(t, s.WinnerClubID)
	assert.Nil(t, p.FindSeries("r2s0").Top)
	assert.Equal(t, models.PlayoffInProgress, p.Status)

	require.NoError(t, UndoGame(p, "r1s0", "g1"))
	assert.Equal(t, models.PlayoffPending, p.Status)

	assert.ErrorIs(t, UndoGame(p, "r1s0", "g1"), ErrGameNotFound)
	assert.ErrorIs(t, UndoGame(p, "nope", "g1"), ErrSeriesNotFound)
}

func TestUndoGame_LockedByNextRound(t *testing.T) {
	t.Parallel()

	p, err := New(clubs(4), []int{1})
	require.NoError(t, err)

	require.NoError(t, RecordGame(p, "r1s0", "c1", "g1"))
	require.NoError(t, RecordGame(p, "r1s1", "c2", "g2"))
	require.NoError(t, RecordGame(p, "r2s0", "c2", "g3"))
	assert.Equal(t, "c2", Champion(p))

	assert.ErrorIs(t, UndoGame(p, "r1s0", "g1"), ErrBracketLocked)

	// Undoing the final reopens the playoff
	require.NoError(t, UndoGame(p, "r2s0", "g3"))
	assert.Empty(t, Champion(p))
	assert.Equal(t, models.PlayoffInProgress, p.Status)

	require.NoError(t, UndoGame(p, "r1s0", "g1"))
	assert.Nil(t, p.FindSeries("r2s0").Top)
}

func TestReseed(t *testing.T) {
	t.Parallel()

	p, err := New(clubs(4), []int{5, 7})
	require.NoError(t, err)

	require.NoError(t, Reseed(p, []string{"c4", "c3", "c2", "c1", "c5"}))
	assert.Equal(t, 8, p.BracketSize)
	assert.Equal(t, []int{3, 4, 4}, p.WinsNeeded)
	assert.Equal(t, "c4", p.FindSeries("r1s0").Top.ClubID)
	assert.Equal(t, []string{"c4", "c3", "c2", "c1", "c5"}, Seeds(p))

	require.NoError(t, RecordGame(p, "r1s1", "c1", "g1"))
	assert.ErrorIs(t, Reseed(p, clubs(4)), ErrBracketLocked)
}

func TestSeriesFor(t *testing.T) {
	t.Parallel()

	p, err := New(clubs(4), []int{3})
	require.NoError(t, err)

	s := SeriesFor(p, "c3", "c2")
	require.NotNil(t, s)
	assert.Equal(t, "r1s1", s.ID)
	assert.Nil(t, SeriesFor(p, "c1", "c2"))
}
