package logic

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type reportService struct {
	store     ReportStore
	maxLength int
	now       func() time.Time
}

func NewReportService(store ReportStore, maxLength int) ReportService {
	return &reportService{store: store, maxLength: maxLength, now: time.Now}
}

// SubmitReport stores a user report and returns its id.
func (s *reportService) SubmitReport(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: missing message", ErrInvalidReport)
	}
	if s.maxLength > 0 && utf8.RuneCountInString(message) > s.maxLength {
		return "", fmt.Errorf("%w: message is too long", ErrInvalidReport)
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate report id: %w", err)
	}
	if err := s.store.InsertReport(ctx, id, message, s.now().UTC()); err != nil {
		return "", fmt.Errorf("insert report: %w", err)
	}
	return id, nil
}
