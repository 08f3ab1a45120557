// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/rinkside/internal/models"
)

func TestCollection_Update(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	club := &models.Club{Name: "Harbor Hawks", ShortName: "HHK"}
	require.NoError(t, s.Clubs.Insert(ctx, club))

	got, err := s.Clubs.Update(ctx, club.ID, func(c *models.Club) error {
		c.Name = "Harbor Herons"
		c.ID = "ignored"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, club.ID, got.ID)
	assert.Equal(t, "Harbor Herons", got.Name)

	found, err := s.Clubs.FindUnique(ctx, IndexName, "harbor herons")
	require.NoError(t, err)
	assert.Equal(t, club.ID, found.ID)
	_, err = s.Clubs.FindUnique(ctx, IndexName, "harbor hawks")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.Clubs.Update(ctx, "ghost", func(*models.Club) error { return nil })
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCollection_UpdateErrorKeepsDocument(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	club := &models.Club{Name: "Racers", ShortName: "RAC"}
	require.NoError(t, s.Clubs.Insert(ctx, club))

	stop := errors.New("stop")
	_, err := s.Clubs.Update(ctx, club.ID, func(c *models.Club) error {
		c.Name = "Renamed"
		return stop
	})
	require.ErrorIs(t, err, stop)

	got, err := s.Clubs.Get(ctx, club.ID)
	require.NoError(t, err)
	assert.Equal(t, "Racers", got.Name)
}

func TestCollection_ConcurrentUpdatesAllApply(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	se := &models.Season{Name: "Season 1", Number: 0}
	require.NoError(t, s.Seasons.Insert(ctx, se))

	const writers = 5
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Seasons.Update(ctx, se.ID, func(cur *models.Season) error {
				cur.Number++
				return nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.Seasons.Get(ctx, se.ID)
	require.NoError(t, err)
	assert.Equal(t, writers, got.Number)
}

func TestDB_UpdateSpansCollections(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	g := &models.Game{SeasonID: "s1", HomeClubID: "a", AwayClubID: "b", PlayoffID: "p"}
	require.NoError(t, s.Games.Insert(ctx, g))
	p := &models.Playoff{SeasonID: "s1", Name: "Cup"}
	require.NoError(t, s.Playoffs.Insert(ctx, p))

	// A failing transaction leaves both documents as they were.
	stop := errors.New("stop")
	err := s.DB.Update(ctx, func(tx *Tx) error {
		cur, err := s.Games.GetTx(tx, g.ID)
		if err != nil {
			return err
		}
		cur.HomeScore = 5
		if err := s.Games.ReplaceTx(tx, cur); err != nil {
			return err
		}
		if err := s.Playoffs.DeleteTx(tx, p.ID); err != nil {
			return err
		}
		return stop
	})
	require.ErrorIs(t, err, stop)

	got, err := s.Games.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Zero(t, got.HomeScore)
	_, err = s.Playoffs.Get(ctx, p.ID)
	require.NoError(t, err)

	err = s.DB.Update(ctx, func(tx *Tx) error {
		bracket, err := s.Playoffs.GetTx(tx, p.ID)
		if err != nil {
			return err
		}
		bracket.Name = "Final"
		if err := s.Playoffs.ReplaceTx(tx, bracket); err != nil {
			return err
		}
		return s.Games.DeleteTx(tx, g.ID)
	})
	require.NoError(t, err)

	_, err = s.Games.Get(ctx, g.ID)
	require.ErrorIs(t, err, ErrNotFound)
	bracket, err := s.Playoffs.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", bracket.Name)
}

func TestDB_UpdateCancelled(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := s.DB.Update(ctx, func(*Tx) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
