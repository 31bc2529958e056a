package store

import (
	"context"
	"fmt"
	"time"
)

type ReportStore struct {
	pg PgPool
}

func NewReportStore(pg PgPool) *ReportStore {
	return &ReportStore{pg: pg}
}

func (s *ReportStore) InsertReport(ctx context.Context, id, message string, at time.Time) error {
	_, err := s.pg.Exec(ctx, `INSERT INTO reports (id, message, created_at) VALUES ($1, $2, $3)`, id, message, at)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}
