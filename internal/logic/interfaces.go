package logic

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/esportle/esportle-api/internal/models"
)

// RecordStore is the read side of the competition record database.
// Lookups by id return nil (not an error) when the row does not exist.
type RecordStore interface {
	PlayerByID(ctx context.Context, id string) (*models.Player, error)
	PlayersByIDs(ctx context.Context, ids []string) ([]models.Player, error)
	TeamsByIDs(ctx context.Context, ids []string) ([]models.Team, error)
	TournamentsByIDs(ctx context.Context, ids []string) ([]models.Tournament, error)
	ResultsForPlayer(ctx context.Context, playerID string) ([]models.TournamentResult, error)
	ResultsForTournaments(ctx context.Context, tournamentIDs []string) ([]models.TournamentResult, error)
	// TournamentsEndedAfter returns tournaments of the given tier whose end
	// date is after since. A zero since disables the date bound.
	TournamentsEndedAfter(ctx context.Context, tier int, since time.Time) ([]models.Tournament, error)
	TeammatesInTournamentTeam(ctx context.Context, tournamentID, teamID string) ([]string, error)
	SearchPlayers(ctx context.Context, term string, limit int) ([]models.PlayerMatch, error)
	PlayersLastPlayedForTeam(ctx context.Context, term string, limit int) ([]models.PlayerMatch, error)
}

// AnswerStore persists daily answer records. Records are write-once.
type AnswerStore interface {
	// GetMostRecent returns up to n records, newest first.
	GetMostRecent(ctx context.Context, n int) ([]models.DailyAnswerRecord, error)
	// GetByDate returns nil when no record exists for date.
	GetByDate(ctx context.Context, date string) (*models.DailyAnswerRecord, error)
	// InsertIfAbsent writes record unless one exists for its date and
	// reports whether it was written. The date index is written either way.
	InsertIfAbsent(ctx context.Context, record models.DailyAnswerRecord) (bool, error)
}

// ReportStore persists user submitted reports.
type ReportStore interface {
	InsertReport(ctx context.Context, id, message string, at time.Time) error
}

// RedisClient defines the interface for Redis client
type RedisClient interface {
	HGet(ctx context.Context, key string, field string) *redis.StringCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// GuessQueue receives guess events for asynchronous analytics.
type GuessQueue interface {
	Enqueue(event *models.GuessEvent) bool
	QueueDepth() int
}

type GuessService interface {
	MakeGuess(ctx context.Context, guessID string, mode models.Mode, dayKey string) (*models.GuessResult, error)
}

type GameService interface {
	CurrentGame(ctx context.Context) (*models.GameResponse, error)
}

type DailyService interface {
	EnsureDays(ctx context.Context, now time.Time) ([]string, error)
}

type SearchService interface {
	SearchPlayers(ctx context.Context, term string) ([]models.PlayerMatch, error)
}

type ReportService interface {
	SubmitReport(ctx context.Context, message string) (string, error)
}

type StatsService interface {
	GetDayStats(ctx context.Context, dayKey string) (*models.DayStats, error)
}

type ProfileService interface {
	LoadProfile(ctx context.Context, playerID string) (*models.PlayerProfile, error)
}
