package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/esportle/esportle-api/internal/models"
)

// TxBeginner opens transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ImportSummary counts the rows upserted by Import.
type ImportSummary struct {
	Players     int
	Teams       int
	Tournaments int
	Results     int
}

const (
	upsertPlayer = `
		INSERT INTO players (id, name, roles, nationalities)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, roles = EXCLUDED.roles, nationalities = EXCLUDED.nationalities`
	upsertTeam = `
		INSERT INTO teams (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`
	upsertTournament = `
		INSERT INTO tournaments (id, name, series, region, tier, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, series = EXCLUDED.series, region = EXCLUDED.region,
			tier = EXCLUDED.tier, start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date`
	upsertResult = `
		INSERT INTO tournament_results (tournament_id, player_id, team_id, position, beat_percent, tier_weight)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tournament_id, player_id, team_id) DO UPDATE SET position = EXCLUDED.position,
			beat_percent = EXCLUDED.beat_percent, tier_weight = EXCLUDED.tier_weight`
)

// Import upserts a scraper dump in one transaction. Rows are keyed by their
// path ids, so importing the same dump twice is a no-op.
func Import(ctx context.Context, db TxBeginner, dump *models.Dump) (ImportSummary, error) {
	var summary ImportSummary

	tournaments := make([]models.Tournament, 0, len(dump.Tournaments))
	for _, t := range dump.Tournaments {
		record, err := t.Record()
		if err != nil {
			return summary, err
		}
		tournaments = append(tournaments, record)
	}

	batch := &pgx.Batch{}
	for _, p := range dump.Players {
		rec := p.Record()
		batch.Queue(upsertPlayer, rec.ID, rec.Name, nonNil(rec.Roles), nonNil(rec.Nationalities))
		summary.Players++
	}
	for _, t := range dump.Teams {
		rec := t.Record()
		batch.Queue(upsertTeam, rec.ID, rec.Name)
		summary.Teams++
	}
	for _, t := range tournaments {
		batch.Queue(upsertTournament, t.ID, t.Name, t.Series, string(t.Region), t.Tier, t.StartDate, t.EndDate)
		summary.Tournaments++
	}
	for _, r := range dump.Results {
		rec := r.Record()
		batch.Queue(upsertResult, rec.TournamentID, rec.PlayerID, rec.TeamID, rec.Position, rec.BeatPercent, rec.TierWeight)
		summary.Results++
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback(ctx)

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return ImportSummary{}, fmt.Errorf("failed to upsert row %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return ImportSummary{}, fmt.Errorf("failed to close import batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return ImportSummary{}, fmt.Errorf("failed to commit import: %w", err)
	}
	return summary, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
