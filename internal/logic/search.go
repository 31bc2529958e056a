package logic

import (
	"context"
	"fmt"
	"strings"

	"github.com/esportle/esportle-api/internal/models"
)

type searchService struct {
	records RecordStore
	limit   int
}

func NewSearchService(records RecordStore, limit int) SearchService {
	if limit <= 0 {
		limit = 10
	}
	return &searchService{records: records, limit: limit}
}

// SearchPlayers lists players whose latest team matches term first, then
// players whose name matches. Players sharing a display name are shown by
// their path id instead.
func (s *searchService) SearchPlayers(ctx context.Context, term string) ([]models.PlayerMatch, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.PlayerMatch{}, nil
	}

	teamMatches, err := s.records.PlayersLastPlayedForTeam(ctx, term, s.limit)
	if err != nil {
		return nil, fmt.Errorf("search by team: %w", err)
	}
	nameMatches, err := s.records.SearchPlayers(ctx, term, s.limit)
	if err != nil {
		return nil, fmt.Errorf("search by name: %w", err)
	}

	seen := make(map[string]bool, len(teamMatches)+len(nameMatches))
	all := make([]models.PlayerMatch, 0, len(teamMatches)+len(nameMatches))
	for _, m := range append(teamMatches, nameMatches...) {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		all = append(all, m)
	}

	nameCount := make(map[string]int, len(all))
	for _, m := range all {
		nameCount[m.Name]++
	}
	for i, m := range all {
		if nameCount[m.Name] > 1 {
			all[i].Name = strings.ReplaceAll(m.ID, "_", " ")
		}
	}

	if len(all) > s.limit {
		all = all[:s.limit]
	}
	return all, nil
}
