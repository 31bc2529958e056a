package handlers

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/esportle/esportle-api/internal/models"
)

// MockGameService
type MockGameService struct {
	CurrentGameFunc func(ctx context.Context) (*models.GameResponse, error)
}

func (m *MockGameService) CurrentGame(ctx context.Context) (*models.GameResponse, error) {
	if m.CurrentGameFunc != nil {
		return m.CurrentGameFunc(ctx)
	}
	return &models.GameResponse{GameKey: "2025-06-01"}, nil
}

// MockGuessService
type MockGuessService struct {
	MakeGuessFunc func(ctx context.Context, guessID string, mode models.Mode, dayKey string) (*models.GuessResult, error)
}

func (m *MockGuessService) MakeGuess(ctx context.Context, guessID string, mode models.Mode, dayKey string) (*models.GuessResult, error) {
	if m.MakeGuessFunc != nil {
		return m.MakeGuessFunc(ctx, guessID, mode, dayKey)
	}
	return &models.GuessResult{Guess: guessID}, nil
}

// MockSearchService
type MockSearchService struct {
	SearchPlayersFunc func(ctx context.Context, term string) ([]models.PlayerMatch, error)
}

func (m *MockSearchService) SearchPlayers(ctx context.Context, term string) ([]models.PlayerMatch, error) {
	if m.SearchPlayersFunc != nil {
		return m.SearchPlayersFunc(ctx, term)
	}
	return []models.PlayerMatch{}, nil
}

// MockReportService
type MockReportService struct {
	SubmitReportFunc func(ctx context.Context, message string) (string, error)
}

func (m *MockReportService) SubmitReport(ctx context.Context, message string) (string, error) {
	if m.SubmitReportFunc != nil {
		return m.SubmitReportFunc(ctx, message)
	}
	return "mock-report-id", nil
}

// MockStatsService
type MockStatsService struct {
	GetDayStatsFunc func(ctx context.Context, dayKey string) (*models.DayStats, error)
}

func (m *MockStatsService) GetDayStats(ctx context.Context, dayKey string) (*models.DayStats, error) {
	if m.GetDayStatsFunc != nil {
		return m.GetDayStatsFunc(ctx, dayKey)
	}
	return &models.DayStats{Date: dayKey, Modes: map[models.Mode]models.ModeStats{}}, nil
}

type MockPinger struct {
	Err error
}

func (m *MockPinger) Ping(ctx context.Context) error { return m.Err }

type MockRedisPinger struct {
	Err error
}

func (m *MockRedisPinger) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if m.Err != nil {
		cmd.SetErr(m.Err)
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

type MockQueue struct {
	Depth int
}

func (m *MockQueue) QueueDepth() int { return m.Depth }
