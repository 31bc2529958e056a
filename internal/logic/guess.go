package logic

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/esportle/esportle-api/internal/models"
)

var guessesEvaluated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "esportle_guesses_evaluated_total",
	Help: "Guesses evaluated by mode and correctness",
}, []string{"mode", "correct"})

type guessService struct {
	answers  AnswerStore
	profiles ProfileService
	queue    GuessQueue
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// NewGuessService creates the guess evaluator. queue may be nil when
// analytics are disabled.
func NewGuessService(answers AnswerStore, profiles ProfileService, queue GuessQueue, logger *zap.Logger) GuessService {
	return &guessService{
		answers:  answers,
		profiles: profiles,
		queue:    queue,
		logger:   logger.Sugar(),
		now:      time.Now,
	}
}

// MakeGuess compares the guessed player with the answer stored for mode on
// dayKey.
func (s *guessService) MakeGuess(ctx context.Context, guessID string, mode models.Mode, dayKey string) (*models.GuessResult, error) {
	record, err := s.answers.GetByDate(ctx, dayKey)
	if err != nil {
		return nil, fmt.Errorf("load record for %s: %w", dayKey, err)
	}
	if record == nil {
		return nil, fmt.Errorf("day %s: %w", dayKey, ErrUnknownDayKey)
	}
	answer, ok := record.Modes[mode]
	if !ok {
		return nil, fmt.Errorf("day %s has no %s answer: %w", dayKey, mode, ErrUnknownDayKey)
	}

	var guessProfile, answerProfile *models.PlayerProfile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.LoadProfile(gctx, answer.AnswerPlayerID)
		if err != nil {
			// A missing answer is a data fault, not a bad guess.
			if errors.Is(err, ErrPlayerNotFound) || errors.Is(err, ErrProfileConstruction) {
				return fmt.Errorf("answer profile for %s is unusable: %v", dayKey, err)
			}
			return fmt.Errorf("answer profile: %w", err)
		}
		answerProfile = p
		return nil
	})
	g.Go(func() error {
		p, err := s.profiles.LoadProfile(gctx, guessID)
		if err != nil {
			return fmt.Errorf("guess profile: %w", err)
		}
		guessProfile = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := Compare(guessProfile, answerProfile)
	guessesEvaluated.WithLabelValues(string(mode), strconv.FormatBool(result.Overall)).Inc()

	if s.queue != nil && !s.queue.Enqueue(models.NewGuessEvent(dayKey, mode, guessID, &result, s.now())) {
		s.logger.Warnw("Guess event dropped", "date", dayKey, "mode", mode)
	}
	return &result, nil
}
