package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/esportle/esportle-api/internal/models"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RecordStore reads the competition record tables.
type RecordStore struct {
	pg PgPool
}

func NewRecordStore(pg PgPool) *RecordStore {
	return &RecordStore{pg: pg}
}

const (
	playerColumns     = `id, name, roles, nationalities`
	tournamentColumns = `id, name, series, region, tier, start_date, end_date`
	resultColumns     = `tournament_id, player_id, team_id, position, beat_percent, tier_weight`
)

func (s *RecordStore) PlayerByID(ctx context.Context, id string) (*models.Player, error) {
	var p models.Player
	err := s.pg.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Roles, &p.Nationalities)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}
	return &p, nil
}

func (s *RecordStore) PlayersByIDs(ctx context.Context, ids []string) ([]models.Player, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.pg.Query(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Roles, &p.Nationalities); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *RecordStore) TeamsByIDs(ctx context.Context, ids []string) ([]models.Team, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.pg.Query(ctx, `SELECT id, name FROM teams WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *RecordStore) TournamentsByIDs(ctx context.Context, ids []string) ([]models.Tournament, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.pg.Query(ctx, `SELECT `+tournamentColumns+` FROM tournaments WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournaments: %w", err)
	}
	return scanTournaments(rows)
}

// TournamentsEndedAfter lists tournaments of tier ending after since. A zero
// since returns every tournament of the tier.
func (s *RecordStore) TournamentsEndedAfter(ctx context.Context, tier int, since time.Time) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE tier = $1`
	args := []any{tier}
	if !since.IsZero() {
		query += ` AND end_date > $2`
		args = append(args, since)
	}
	query += ` ORDER BY id`

	rows, err := s.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get tier %d tournaments: %w", tier, err)
	}
	return scanTournaments(rows)
}

func scanTournaments(rows pgx.Rows) ([]models.Tournament, error) {
	defer rows.Close()

	var tournaments []models.Tournament
	for rows.Next() {
		var t models.Tournament
		var region string
		if err := rows.Scan(&t.ID, &t.Name, &t.Series, &region, &t.Tier, &t.StartDate, &t.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", err)
		}
		t.Region = models.Region(region)
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (s *RecordStore) ResultsForPlayer(ctx context.Context, playerID string) ([]models.TournamentResult, error) {
	rows, err := s.pg.Query(ctx, `SELECT `+resultColumns+` FROM tournament_results WHERE player_id = $1`, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get results for %s: %w", playerID, err)
	}
	return scanResults(rows)
}

func (s *RecordStore) ResultsForTournaments(ctx context.Context, tournamentIDs []string) ([]models.TournamentResult, error) {
	if len(tournamentIDs) == 0 {
		return nil, nil
	}
	rows, err := s.pg.Query(ctx, `SELECT `+resultColumns+` FROM tournament_results WHERE tournament_id = ANY($1)`, tournamentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament results: %w", err)
	}
	return scanResults(rows)
}

func scanResults(rows pgx.Rows) ([]models.TournamentResult, error) {
	defer rows.Close()

	var results []models.TournamentResult
	for rows.Next() {
		var r models.TournamentResult
		if err := rows.Scan(&r.TournamentID, &r.PlayerID, &r.TeamID, &r.Position, &r.BeatPercent, &r.TierWeight); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *RecordStore) TeammatesInTournamentTeam(ctx context.Context, tournamentID, teamID string) ([]string, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT player_id FROM tournament_results
		WHERE tournament_id = $1 AND team_id = $2
		ORDER BY player_id
	`, tournamentID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster of %s in %s: %w", teamID, tournamentID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan roster: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LikePattern matches anywhere in the name from three characters on, and
// only as a prefix for shorter terms.
func LikePattern(term string) string {
	if len([]rune(term)) >= 3 {
		return "%" + escapeLike(term) + "%"
	}
	return escapeLike(term) + "%"
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

// SearchPlayers matches names of players who competed outside international
// events.
func (s *RecordStore) SearchPlayers(ctx context.Context, term string, limit int) ([]models.PlayerMatch, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT DISTINCT p.id, p.name
		FROM players p
		JOIN tournament_results r ON r.player_id = p.id
		JOIN tournaments t ON t.id = r.tournament_id
		WHERE p.name ILIKE $1 AND t.region <> $2
		ORDER BY p.name, p.id
		LIMIT $3
	`, LikePattern(term), string(models.RegionInternational), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}
	return scanMatches(rows)
}

// PlayersLastPlayedForTeam lists players whose most recent result was for a
// team named term.
func (s *RecordStore) PlayersLastPlayedForTeam(ctx context.Context, term string, limit int) ([]models.PlayerMatch, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT latest.id, latest.name FROM (
			SELECT DISTINCT ON (r.player_id) r.player_id AS id, p.name, r.team_id
			FROM tournament_results r
			JOIN tournaments t ON t.id = r.tournament_id
			JOIN players p ON p.id = r.player_id
			WHERE t.tier = 1
			ORDER BY r.player_id, t.start_date DESC
		) latest
		JOIN teams tm ON tm.id = latest.team_id
		WHERE tm.name ILIKE $1
		ORDER BY latest.name, latest.id
		LIMIT $2
	`, escapeLike(term), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search players by team: %w", err)
	}
	return scanMatches(rows)
}

func scanMatches(rows pgx.Rows) ([]models.PlayerMatch, error) {
	defer rows.Close()

	matches := []models.PlayerMatch{}
	for rows.Next() {
		var m models.PlayerMatch
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
