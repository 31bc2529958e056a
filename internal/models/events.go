package models

import (
	"time"

	"github.com/google/uuid"
)

// GuessEvent is emitted for every evaluated guess and consumed by the
// analytics worker pool.
type GuessEvent struct {
	ID         uuid.UUID `json:"id"`
	DayKey     string    `json:"day_key"`
	Mode       Mode      `json:"mode"`
	GuessID    string    `json:"guess_id"`
	Correct    bool      `json:"correct"`
	Region     Hint      `json:"region"`
	Team       Hint      `json:"team"`
	Role       Hint      `json:"role"`
	Nation     Hint      `json:"nationality"`
	Debut      Hint      `json:"debut"`
	Achieve    Hint      `json:"greatest_achievement"`
	ReceivedAt time.Time `json:"received_at"`
}

// NewGuessEvent captures the outcome of result for analytics.
func NewGuessEvent(dayKey string, mode Mode, guessID string, result *GuessResult, at time.Time) *GuessEvent {
	return &GuessEvent{
		ID:         uuid.New(),
		DayKey:     dayKey,
		Mode:       mode,
		GuessID:    guessID,
		Correct:    result.Overall,
		Region:     result.Region.Hint,
		Team:       result.Team.Hint,
		Role:       result.Role.Hint,
		Nation:     result.Nationality.Hint,
		Debut:      result.Debut.Hint,
		Achieve:    result.GreatestAchievement.Hint,
		ReceivedAt: at,
	}
}

// ClickHouseGuessEvent is the flattened row written to guess_events.
type ClickHouseGuessEvent struct {
	ID          uuid.UUID
	Timestamp   time.Time
	DayKey      string
	Mode        string
	GuessID     string
	Correct     uint8
	Region      string
	Team        string
	Role        string
	Nationality string
	Debut       string
	Achievement string
	RawJSON     string
}

// StatsKey is the Redis hash holding guess counters for one day and mode.
func StatsKey(dayKey string, mode Mode) string {
	return "stats:" + dayKey + ":" + string(mode)
}

// Fields of the StatsKey hash.
const (
	StatsFieldGuesses = "guesses"
	StatsFieldSolves  = "solves"
)
