package logic

import (
	"context"
	"fmt"
	"sort"

	"github.com/esportle/esportle-api/internal/models"
)

// joinedResult is a result resolved against its tournament.
type joinedResult struct {
	result     models.TournamentResult
	tournament models.Tournament
	region     models.Region
	series     *Series
}

// BuildProfile reduces a player's raw records to a comparable profile. It is
// pure: identical inputs yield equal profiles.
func BuildProfile(player models.Player, results []models.TournamentResult, teams []models.Team, tournaments []models.Tournament) (*models.PlayerProfile, error) {
	tournamentsByID := make(map[string]models.Tournament, len(tournaments))
	for _, t := range tournaments {
		tournamentsByID[t.ID] = t
	}
	teamNames := make(map[string]string, len(teams))
	for _, t := range teams {
		teamNames[t.ID] = t.Name
	}

	joined := make([]joinedResult, 0, len(results))
	for _, r := range results {
		t, ok := tournamentsByID[r.TournamentID]
		if !ok {
			continue
		}
		joined = append(joined, joinedResult{
			result:     r,
			tournament: t,
			region:     TournamentRegion(t),
			series:     Classify(t.ID),
		})
	}
	if len(joined) == 0 {
		return nil, fmt.Errorf("build profile for %s: %w", player.ID, ErrProfileConstruction)
	}

	sort.SliceStable(joined, func(i, j int) bool {
		a, b := joined[i].tournament, joined[j].tournament
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.After(b.StartDate)
		}
		return a.ID < b.ID
	})

	teamName := func(id string) string {
		if name, ok := teamNames[id]; ok && name != "" {
			return name
		}
		return id
	}

	profile := &models.PlayerProfile{
		ID:            player.ID,
		Name:          player.Name,
		CurrentRegion: models.RegionUnknown,
		CurrentTeam:   models.UnknownTeam,
		Roles:         normalizeRoles(player.Roles),
		Nationalities: dedupe(player.Nationalities),
		Debut:         joined[len(joined)-1].tournament.StartDate,
	}

	for _, j := range joined {
		if j.region == models.RegionInternational {
			continue
		}
		profile.CurrentRegion = j.region
		profile.CurrentTeam = teamName(j.result.TeamID)
		break
	}

	seenRegions := map[models.Region]bool{}
	seenTeams := map[string]bool{}
	for _, j := range joined {
		r := j.region
		if r != models.RegionInternational && r != models.RegionUnknown && r != profile.CurrentRegion && !seenRegions[r] {
			seenRegions[r] = true
			profile.HistoricRegions = append(profile.HistoricRegions, r)
		}
		name := teamName(j.result.TeamID)
		if name != profile.CurrentTeam && !seenTeams[name] {
			seenTeams[name] = true
			profile.HistoricTeams = append(profile.HistoricTeams, name)
		}
	}

	profile.GreatestAchievement = greatestAchievement(joined)
	return profile, nil
}

// greatestAchievement picks the result maximising beat percent plus series
// importance. Equal scores prefer the lowest tier weight, a missing weight
// counting as 0. joined must be sorted newest first; remaining ties keep the
// most recent result.
func greatestAchievement(joined []joinedResult) models.Achievement {
	var (
		best       *joinedResult
		bestScore  int
		bestWeight float64
	)
	for i := range joined {
		j := &joined[i]
		if j.result.BeatPercent == nil || j.series == nil || j.series.Importance <= 0 {
			continue
		}
		score := *j.result.BeatPercent + j.series.Importance
		weight := 0.0
		if j.result.TierWeight != nil {
			weight = *j.result.TierWeight
		}
		if best == nil || score > bestScore || (score == bestScore && weight < bestWeight) {
			best, bestScore, bestWeight = j, score, weight
		}
	}
	if best == nil {
		return models.Achievement{}
	}

	name := best.series.Name
	if name == "" {
		name = best.tournament.Series
	}
	if name == "" {
		name = best.tournament.Name
	}
	return models.Achievement{
		Label: achievementLabel(name, best.result.Position),
		Score: bestScore,
	}
}

func achievementLabel(name string, position *string) string {
	if position == nil || *position == "" {
		return name
	}
	return name + " " + ordinal(*position)
}

func ordinal(position string) string {
	switch position {
	case "1":
		return "Champion"
	case "2":
		return "Runner-up"
	case "3":
		return "3rd"
	default:
		return position + "th"
	}
}

func normalizeRoles(raw []string) []models.Role {
	roles := make([]models.Role, 0, len(raw))
	seen := map[models.Role]bool{}
	for _, r := range raw {
		role, ok := NormalizeRole(r)
		if !ok || seen[role] {
			continue
		}
		seen[role] = true
		roles = append(roles, role)
	}
	return roles
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := map[string]bool{}
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

type profileService struct {
	records RecordStore
}

func NewProfileService(records RecordStore) ProfileService {
	return &profileService{records: records}
}

// LoadProfile fetches a player's records and builds their profile.
func (s *profileService) LoadProfile(ctx context.Context, playerID string) (*models.PlayerProfile, error) {
	player, err := s.records.PlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("load player %s: %w", playerID, err)
	}
	if player == nil {
		return nil, fmt.Errorf("player %s: %w", playerID, ErrPlayerNotFound)
	}

	results, err := s.records.ResultsForPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("load results for %s: %w", playerID, err)
	}

	teamIDs := make([]string, 0, len(results))
	tournamentIDs := make([]string, 0, len(results))
	for _, r := range results {
		teamIDs = append(teamIDs, r.TeamID)
		tournamentIDs = append(tournamentIDs, r.TournamentID)
	}

	teams, err := s.records.TeamsByIDs(ctx, dedupe(teamIDs))
	if err != nil {
		return nil, fmt.Errorf("load teams for %s: %w", playerID, err)
	}
	tournaments, err := s.records.TournamentsByIDs(ctx, dedupe(tournamentIDs))
	if err != nil {
		return nil, fmt.Errorf("load tournaments for %s: %w", playerID, err)
	}

	return BuildProfile(*player, results, teams, tournaments)
}
