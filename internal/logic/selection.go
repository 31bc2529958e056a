package logic

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/esportle/esportle-api/internal/models"
)

// TopTier is the tournament tier eligible for daily answers.
const TopTier = 1

// Selector draws a daily answer for a mode.
type Selector struct {
	records     RecordStore
	recentYears int
	now         func() time.Time
	intN        func(n int) int
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithClock overrides the selector's notion of now.
func WithClock(now func() time.Time) SelectorOption {
	return func(s *Selector) { s.now = now }
}

// WithIntN overrides the source of random indexes. intN(n) must return a
// value in [0, n).
func WithIntN(intN func(n int) int) SelectorOption {
	return func(s *Selector) { s.intN = intN }
}

// NewSelector creates a selector bounding recent modes to tournaments that
// ended after January 1st, recentYears years ago.
func NewSelector(records RecordStore, recentYears int, opts ...SelectorOption) *Selector {
	s := &Selector{
		records:     records,
		recentYears: recentYears,
		now:         time.Now,
		intN:        rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Since returns the earliest end date a recent tournament may have.
func (s *Selector) Since() time.Time {
	year := s.now().UTC().Year() - s.recentYears
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// SelectAnswer picks one eligible player for mode uniformly at random,
// never returning an id present in excluded.
func (s *Selector) SelectAnswer(ctx context.Context, mode models.Mode, excluded []string) (string, error) {
	pool, err := s.candidates(ctx, mode, excluded)
	if err != nil {
		return "", err
	}
	if len(pool) == 0 {
		return "", fmt.Errorf("mode %s: %w", mode, ErrNoEligibleCandidates)
	}
	return pool[s.intN(len(pool))], nil
}

// candidates materialises the eligible pool for mode, sorted by id.
func (s *Selector) candidates(ctx context.Context, mode models.Mode, excluded []string) ([]string, error) {
	var since time.Time
	if mode.Recent() {
		since = s.Since()
	}

	tournaments, err := s.records.TournamentsEndedAfter(ctx, TopTier, since)
	if err != nil {
		return nil, fmt.Errorf("load tournaments for %s: %w", mode, err)
	}

	locked := mode.LockedRegion()
	tournamentIDs := make([]string, 0, len(tournaments))
	for _, t := range tournaments {
		region := TournamentRegion(t)
		if locked != "" && region != locked {
			continue
		}
		if locked == "" && region == models.RegionInternational {
			continue
		}
		tournamentIDs = append(tournamentIDs, t.ID)
	}
	if len(tournamentIDs) == 0 {
		return nil, nil
	}

	results, err := s.records.ResultsForTournaments(ctx, tournamentIDs)
	if err != nil {
		return nil, fmt.Errorf("load results for %s: %w", mode, err)
	}

	skip := make(map[string]bool, len(excluded))
	for _, id := range excluded {
		skip[id] = true
	}
	playerIDs := make([]string, 0, len(results))
	for _, r := range results {
		if skip[r.PlayerID] {
			continue
		}
		playerIDs = append(playerIDs, r.PlayerID)
	}
	playerIDs = dedupe(playerIDs)
	if len(playerIDs) == 0 {
		return nil, nil
	}

	players, err := s.records.PlayersByIDs(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("load players for %s: %w", mode, err)
	}

	pool := make([]string, 0, len(players))
	for _, p := range players {
		if len(p.Roles) == 0 || skip[p.ID] {
			continue
		}
		pool = append(pool, p.ID)
	}
	sort.Strings(pool)
	return dedupe(pool), nil
}
