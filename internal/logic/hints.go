package logic

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/esportle/esportle-api/internal/models"
)

// HintGenerator picks the three facts revealed during a game.
type HintGenerator struct {
	records RecordStore
	intN    func(n int) int
}

// NewHintGenerator creates a generator drawing from intN, or from
// math/rand when intN is nil.
func NewHintGenerator(records RecordStore, intN func(n int) int) *HintGenerator {
	if intN == nil {
		intN = rand.IntN
	}
	return &HintGenerator{records: records, intN: intN}
}

// GenerateHints returns a tournament, a team and a teammate from the
// player's ranked history. The most recent ranked result is withheld when
// another one exists.
func (g *HintGenerator) GenerateHints(ctx context.Context, playerID string) (models.Hints, error) {
	results, err := g.records.ResultsForPlayer(ctx, playerID)
	if err != nil {
		return models.Hints{}, fmt.Errorf("load results for %s: %w", playerID, err)
	}

	tournamentIDs := make([]string, 0, len(results))
	for _, r := range results {
		tournamentIDs = append(tournamentIDs, r.TournamentID)
	}
	tournaments, err := g.records.TournamentsByIDs(ctx, dedupe(tournamentIDs))
	if err != nil {
		return models.Hints{}, fmt.Errorf("load tournaments for %s: %w", playerID, err)
	}
	byID := make(map[string]models.Tournament, len(tournaments))
	for _, t := range tournaments {
		byID[t.ID] = t
	}

	ranked := make([]joinedResult, 0, len(results))
	for _, r := range results {
		t, ok := byID[r.TournamentID]
		if !ok || Importance(t.ID) <= 0 {
			continue
		}
		ranked = append(ranked, joinedResult{result: r, tournament: t})
	}
	if len(ranked) == 0 {
		return models.Hints{}, fmt.Errorf("player %s: %w", playerID, ErrInsufficientHistory)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].tournament, ranked[j].tournament
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.After(b.StartDate)
		}
		return a.ID < b.ID
	})
	if len(ranked) > 1 {
		ranked = ranked[1:]
	}
	g.shuffle(ranked)

	pop := func() joinedResult {
		if len(ranked) > 1 {
			last := ranked[len(ranked)-1]
			ranked = ranked[:len(ranked)-1]
			return last
		}
		return ranked[0]
	}
	teamResult := pop()
	tournamentResult := pop()

	teams, err := g.records.TeamsByIDs(ctx, []string{teamResult.result.TeamID})
	if err != nil {
		return models.Hints{}, fmt.Errorf("load team %s: %w", teamResult.result.TeamID, err)
	}
	teamName := teamResult.result.TeamID
	if len(teams) > 0 && teams[0].Name != "" {
		teamName = teams[0].Name
	}

	teammate, err := g.pickTeammate(ctx, playerID, teamResult.result.TeamID, ranked)
	if err != nil {
		return models.Hints{}, err
	}

	return models.Hints{
		Tournament: tournamentResult.tournament.Name,
		Team:       teamName,
		Teammate:   teammate,
	}, nil
}

// pickTeammate prefers results on a different team than the team hint, then
// falls back to the rest. An empty name is returned when no result has a
// recorded teammate.
func (g *HintGenerator) pickTeammate(ctx context.Context, playerID, hintTeamID string, remaining []joinedResult) (string, error) {
	ordered := make([]joinedResult, 0, len(remaining))
	for _, r := range remaining {
		if r.result.TeamID != hintTeamID {
			ordered = append(ordered, r)
		}
	}
	for _, r := range remaining {
		if r.result.TeamID == hintTeamID {
			ordered = append(ordered, r)
		}
	}

	for _, r := range ordered {
		ids, err := g.records.TeammatesInTournamentTeam(ctx, r.result.TournamentID, r.result.TeamID)
		if err != nil {
			return "", fmt.Errorf("load teammates in %s/%s: %w", r.result.TournamentID, r.result.TeamID, err)
		}
		candidates := make([]string, 0, len(ids))
		for _, id := range dedupe(ids) {
			if id != playerID {
				candidates = append(candidates, id)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		chosen := candidates[g.intN(len(candidates))]
		teammate, err := g.records.PlayerByID(ctx, chosen)
		if err != nil {
			return "", fmt.Errorf("load teammate %s: %w", chosen, err)
		}
		if teammate == nil {
			return chosen, nil
		}
		return teammate.Name, nil
	}
	return "", nil
}

// shuffle is a Fisher-Yates shuffle driven by the injected random source.
func (g *HintGenerator) shuffle(results []joinedResult) {
	for i := len(results) - 1; i > 0; i-- {
		j := g.intN(i + 1)
		results[i], results[j] = results[j], results[i]
	}
}
