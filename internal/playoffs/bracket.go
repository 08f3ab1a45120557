// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

package playoffs

import (
	"errors"
	"fmt"

	"github.com/tomtom215/rinkside/internal/models"
)

var (
	ErrTooFewTeams         = errors.New("a playoff needs at least 2 teams")
	ErrDuplicateSeed       = errors.New("club seeded more than once")
	ErrInvalidSeriesLength = errors.New("series length must be a positive odd number")
	ErrSeriesNotFound      = errors.New("series not found")
	ErrSeriesNotReady      = errors.New("series is waiting for an opponent")
	ErrSeriesClosed        = errors.New("series is already decided")
	ErrNotParticipant      = errors.New("club is not in this series")
	ErrDuplicateGame       = errors.New("game already recorded")
	ErrGameNotFound        = errors.New("game not recorded in this series")
	ErrBracketLocked       = errors.New("bracket has results that depend on this change")
)

// SeriesID formats the ID of the series at a 1-based round and 0-based index.
func SeriesID(round, index int) string {
	return fmt.Sprintf("r%ds%d", round, index)
}

// NextPowerOfTwo returns the smallest power of two >= n, and at least 2.
func NextPowerOfTwo(n int) int {
	size := 2
	for size < n {
		size <<= 1
	}
	return size
}

// BracketOrder returns the round-one seed order for a power-of-two size.
// Adjacent pairs are matchups. BracketOrder(8) is 1,8,4,5,2,7,3,6.
func BracketOrder(size int) []int {
	if size < 2 || size&(size-1) != 0 {
		return nil
	}
	order := []int{1, 2}
	for n := 4; n <= size; n <<= 1 {
		next := make([]int, 0, n)
		for _, s := range order {
			next = append(next, s, n+1-s)
		}
		order = next
	}
	return order
}

// WinsNeeded converts a best-of length into the wins that clinch a series.
func WinsNeeded(length int) int {
	return length/2 + 1
}

// SeriesLength converts clinching wins back into a best-of length.
func SeriesLength(wins int) int {
	return 2*wins - 1
}

// New builds a bracket from seeds (best seed first). seriesLengths gives the
// best-of length for each round; the last length repeats for later rounds.
func New(seeds []string, seriesLengths []int) (*models.Playoff, error) {
	if len(seeds) < 2 {
		return nil, ErrTooFewTeams
	}
	seen := make(map[string]bool, len(seeds))
	for _, id := range seeds {
		if id == "" {
			return nil, fmt.Errorf("%w: empty club id", ErrDuplicateSeed)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSeed, id)
		}
		seen[id] = true
	}
	if len(seriesLengths) == 0 {
		return nil, ErrInvalidSeriesLength
	}
	for _, l := range seriesLengths {
		if l <= 0 || l%2 == 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidSeriesLength, l)
		}
	}

	size := NextPowerOfTwo(len(seeds))
	rounds := 0
	for n := size; n > 1; n >>= 1 {
		rounds++
	}

	p := &models.Playoff{
		Status:      models.PlayoffPending,
		BracketSize: size,
		WinsNeeded:  make([]int, rounds),
		Rounds:      make([][]*models.Series, rounds),
	}
	for r := 0; r < rounds; r++ {
		length := seriesLengths[len(seriesLengths)-1]
		if r < len(seriesLengths) {
			length = seriesLengths[r]
		}
		p.WinsNeeded[r] = WinsNeeded(length)

		count := size >> (r + 1)
		p.Rounds[r] = make([]*models.Series, count)
		for i := 0; i < count; i++ {
			p.Rounds[r][i] = &models.Series{
				ID:         SeriesID(r+1, i),
				Round:      r + 1,
				Index:      i,
				WinsNeeded: p.WinsNeeded[r],
				Games:      []models.SeriesGame{},
			}
		}
	}

	order := BracketOrder(size)
	for i, s := range p.Rounds[0] {
		topSeed, bottomSeed := order[2*i], order[2*i+1]
		s.Top = &models.Entrant{ClubID: seeds[topSeed-1], Seed: topSeed}
		if bottomSeed <= len(seeds) {
			s.Bottom = &models.Entrant{ClubID: seeds[bottomSeed-1], Seed: bottomSeed}
			continue
		}
		// Bye
		s.WinnerClubID = s.Top.ClubID
		advance(p, s, s.Top)
	}
	return p, nil
}

// advance places the winner of s into the next round, or crowns a champion.
func advance(p *models.Playoff, s *models.Series, winner *models.Entrant) {
	if s.Round >= len(p.Rounds) {
		p.ChampionClubID = winner.ClubID
		p.Status = models.PlayoffCompleted
		return
	}
	next := p.Rounds[s.Round][s.Index/2]
	e := *winner
	if s.Index%2 == 0 {
		next.Top = &e
	} else {
		next.Bottom = &e
	}
}

// nextSeries returns the series the winner of s moves into, or nil for the final.
func nextSeries(p *models.Playoff, s *models.Series) *models.Series {
	if s.Round >= len(p.Rounds) {
		return nil
	}
	return p.Rounds[s.Round][s.Index/2]
}

func hasGame(p *models.Playoff, gameID string) bool {
	for _, round := range p.Rounds {
		for _, s := range round {
			if s.HasGame(gameID) {
				return true
			}
		}
	}
	return false
}

// RecordGame credits winnerClubID with a win in the series. The series closes
// once the winner reaches its wins needed.
func RecordGame(p *models.Playoff, seriesID, winnerClubID, gameID string) error {
	s := p.FindSeries(seriesID)
	if s == nil {
		return fmt.Errorf("%w: %s", ErrSeriesNotFound, seriesID)
	}
	if !s.IsReady() {
		return fmt.Errorf("%w: %s", ErrSeriesNotReady, seriesID)
	}
	if s.IsClosed() {
		return fmt.Errorf("%w: %s", ErrSeriesClosed, seriesID)
	}
	entrant := s.EntrantFor(winnerClubID)
	if entrant == nil {
		return fmt.Errorf("%w: %s", ErrNotParticipant, winnerClubID)
	}
	if gameID == "" {
		return fmt.Errorf("%w: empty game id", ErrGameNotFound)
	}
	if hasGame(p, gameID) {
		return fmt.Errorf("%w: %s", ErrDuplicateGame, gameID)
	}

	s.Games = append(s.Games, models.SeriesGame{GameID: gameID, WinnerClubID: winnerClubID})
	wins := &s.BottomWins
	if entrant == s.Top {
		wins = &s.TopWins
	}
	*wins++

	if p.Status == models.PlayoffPending {
		p.Status = models.PlayoffInProgress
	}
	if *wins >= s.WinsNeeded {
		s.WinnerClubID = winnerClubID
		advance(p, s, entrant)
	}
	return nil
}

// UndoGame removes a recorded game. If the game had decided the series, the
// winner is pulled back out of the next round, which is only allowed while
// that series has no games.
func UndoGame(p *models.Playoff, seriesID, gameID string) error {
	s := p.FindSeries(seriesID)
	if s == nil {
		return fmt.Errorf("%w: %s", ErrSeriesNotFound, seriesID)
	}
	idx := -1
	for i, g := range s.Games {
		if g.GameID == gameID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	game := s.Games[idx]

	if s.IsClosed() {
		if next := nextSeries(p, s); next != nil {
			if len(next.Games) > 0 {
				return fmt.Errorf("%w: %s has games", ErrBracketLocked, next.ID)
			}
			if s.Index%2 == 0 {
				next.Top = nil
			} else {
				next.Bottom = nil
			}
		} else {
			p.ChampionClubID = ""
		}
		s.WinnerClubID = ""
	}

	if s.Top != nil && game.WinnerClubID == s.Top.ClubID {
		s.TopWins--
	} else {
		s.BottomWins--
	}
	s.Games = append(s.Games[:idx], s.Games[idx+1:]...)

	if p.GameCount() == 0 {
		p.Status = models.PlayoffPending
	} else {
		p.Status = models.PlayoffInProgress
	}
	return nil
}

// Reseed rebuilds the bracket from new seeds, keeping the series lengths.
// It fails once any game has been recorded.
func Reseed(p *models.Playoff, seeds []string) error {
	if p.GameCount() > 0 {
		return fmt.Errorf("%w: games already recorded", ErrBracketLocked)
	}
	lengths := make([]int, len(p.WinsNeeded))
	for i, w := range p.WinsNeeded {
		lengths[i] = SeriesLength(w)
	}
	fresh, err := New(seeds, lengths)
	if err != nil {
		return err
	}
	p.BracketSize = fresh.BracketSize
	p.WinsNeeded = fresh.WinsNeeded
	p.Rounds = fresh.Rounds
	p.Status = fresh.Status
	p.ChampionClubID = fresh.ChampionClubID
	return nil
}

// Champion returns the champion club ID, or "" while undecided.
func Champion(p *models.Playoff) string {
	return p.ChampionClubID
}

// CurrentRound returns the earliest 1-based round with an undecided series,
// or 0 when the playoff is complete.
func CurrentRound(p *models.Playoff) int {
	for _, round := range p.Rounds {
		for _, s := range round {
			if !s.IsClosed() {
				return s.Round
			}
		}
	}
	return 0
}

// Seeds returns the round-one club IDs in seed order.
func Seeds(p *models.Playoff) []string {
	if len(p.Rounds) == 0 {
		return nil
	}
	bySeed := make(map[int]string)
	for _, s := range p.Rounds[0] {
		if s.Top != nil {
			bySeed[s.Top.Seed] = s.Top.ClubID
		}
		if s.Bottom != nil {
			bySeed[s.Bottom.Seed] = s.Bottom.ClubID
		}
	}
	seeds := make([]string, 0, len(bySeed))
	for i := 1; i <= len(bySeed); i++ {
		seeds = append(seeds, bySeed[i])
	}
	return seeds
}

// SeriesFor returns the open series in which both clubs currently face each other.
func SeriesFor(p *models.Playoff, clubA, clubB string) *models.Series {
	for _, round := range p.Rounds {
		for _, s := range round {
			if s.IsReady() && !s.IsClosed() && s.Has(clubA) && s.Has(clubB) {
				return s
			}
		}
	}
	return nil
}
