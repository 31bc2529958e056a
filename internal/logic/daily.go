package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/esportle/esportle-api/internal/models"
)

var (
	dailyRecordsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esportle_daily_records_written_total",
		Help: "Daily answer records written by the selection job",
	})

	dailySelectionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "esportle_daily_selection_failures_total",
		Help: "Failed answer selections by mode",
	}, []string{"mode"})
)

type dailyService struct {
	answers       AnswerStore
	selector      *Selector
	hints         *HintGenerator
	exclusionDays int
	logger        *zap.SugaredLogger
}

// NewDailyService creates the job that fills in daily answer records.
// Answers of the last exclusionDays records are not picked again.
func NewDailyService(answers AnswerStore, selector *Selector, hints *HintGenerator, exclusionDays int, logger *zap.Logger) DailyService {
	return &dailyService{
		answers:       answers,
		selector:      selector,
		hints:         hints,
		exclusionDays: exclusionDays,
		logger:        logger.Sugar(),
	}
}

// EnsureDays writes the records for now's day and the day before when they
// are missing, returning the day keys it wrote. Running it repeatedly or
// concurrently never changes a written record.
func (s *dailyService) EnsureDays(ctx context.Context, now time.Time) ([]string, error) {
	var written []string
	for _, day := range []time.Time{now, now.AddDate(0, 0, -1)} {
		key := models.DayKey(day)
		ok, err := s.ensureDay(ctx, key)
		if err != nil {
			return written, err
		}
		if ok {
			written = append(written, key)
		}
	}
	return written, nil
}

func (s *dailyService) ensureDay(ctx context.Context, dayKey string) (bool, error) {
	existing, err := s.answers.GetByDate(ctx, dayKey)
	if err != nil {
		return false, fmt.Errorf("check record for %s: %w", dayKey, err)
	}
	if existing != nil {
		// Re-run the write so a record stored without its date index gets indexed.
		if _, err := s.answers.InsertIfAbsent(ctx, *existing); err != nil {
			return false, fmt.Errorf("reindex record for %s: %w", dayKey, err)
		}
		s.logger.Infow("Daily record already present", "date", dayKey)
		return false, nil
	}

	recent, err := s.answers.GetMostRecent(ctx, s.exclusionDays)
	if err != nil {
		return false, fmt.Errorf("load recent records: %w", err)
	}

	record := models.DailyAnswerRecord{
		Date:  dayKey,
		Modes: make(map[models.Mode]models.ModeAnswer, len(models.AllModes)),
	}
	for _, mode := range models.AllModes {
		excluded := make([]string, 0, len(recent))
		for _, r := range recent {
			if a, ok := r.Modes[mode]; ok {
				excluded = append(excluded, a.AnswerPlayerID)
			}
		}

		playerID, err := s.selector.SelectAnswer(ctx, mode, excluded)
		if err != nil {
			dailySelectionFailures.WithLabelValues(string(mode)).Inc()
			return false, fmt.Errorf("select answer for %s on %s: %w", mode, dayKey, err)
		}
		hints, err := s.hints.GenerateHints(ctx, playerID)
		if err != nil {
			dailySelectionFailures.WithLabelValues(string(mode)).Inc()
			return false, fmt.Errorf("generate hints for %s on %s: %w", mode, dayKey, err)
		}

		s.logger.Infow("Selected daily answer", "date", dayKey, "mode", mode, "player", playerID)
		record.Modes[mode] = models.ModeAnswer{AnswerPlayerID: playerID, Hints: hints}
	}

	inserted, err := s.answers.InsertIfAbsent(ctx, record)
	if err != nil {
		return false, fmt.Errorf("insert record for %s: %w", dayKey, err)
	}
	if !inserted {
		s.logger.Warnw("Daily record written concurrently, keeping existing", "date", dayKey)
		return false, nil
	}
	dailyRecordsWritten.Inc()
	return true, nil
}

type gameService struct {
	answers AnswerStore
	records RecordStore
}

func NewGameService(answers AnswerStore, records RecordStore) GameService {
	return &gameService{answers: answers, records: records}
}

// CurrentGame returns the newest day key with its hints, plus the answers of
// the day before when one exists.
func (s *gameService) CurrentGame(ctx context.Context) (*models.GameResponse, error) {
	recent, err := s.answers.GetMostRecent(ctx, 2)
	if err != nil {
		return nil, fmt.Errorf("load recent records: %w", err)
	}
	if len(recent) == 0 {
		return nil, ErrNoGame
	}

	today := recent[0]
	resp := &models.GameResponse{
		GameKey: today.Date,
		Hints:   make(map[models.Mode]models.Hints, len(today.Modes)),
	}
	for mode, answer := range today.Modes {
		resp.Hints[mode] = answer.Hints
	}

	if len(recent) < 2 {
		return resp, nil
	}

	previous := recent[1]
	ids := make([]string, 0, len(previous.Modes))
	for _, answer := range previous.Modes {
		ids = append(ids, answer.AnswerPlayerID)
	}
	players, err := s.records.PlayersByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, fmt.Errorf("load previous answers: %w", err)
	}
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}

	resp.Previous = &models.PreviousGame{
		GameKey: previous.Date,
		Answers: make(map[models.Mode]models.PlayerMatch, len(previous.Modes)),
	}
	for mode, answer := range previous.Modes {
		name := names[answer.AnswerPlayerID]
		if name == "" {
			name = answer.AnswerPlayerID
		}
		resp.Previous.Answers[mode] = models.PlayerMatch{ID: answer.AnswerPlayerID, Name: name}
	}
	return resp, nil
}
