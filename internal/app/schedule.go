package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/esportle/esportle-api/internal/logic"
)

// RunDaily fills in the records for the current day in loc.
func RunDaily(ctx context.Context, daily logic.DailyService, loc *time.Location, now time.Time, logger *zap.Logger) error {
	start := time.Now()
	written, err := daily.EnsureDays(ctx, now.In(loc))
	if err != nil {
		logger.Sugar().Errorw("Daily selection failed", "written", written, "error", err)
		return err
	}
	logger.Sugar().Infow("Daily selection finished", "written", written, "duration", time.Since(start))
	return nil
}

// Scheduler runs the daily selection on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	daily  logic.DailyService
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewScheduler registers the daily selection under spec, a standard five
// field cron expression evaluated in loc.
func NewScheduler(spec string, loc *time.Location, daily logic.DailyService, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		daily:  daily,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid daily schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	_ = RunDaily(ctx, s.daily, s.loc, s.now(), s.logger)
}

// Start begins the schedule in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Sugar().Infow("Daily selection scheduled", "next", e.Next)
	}
}

// Stop halts the schedule and waits for a running selection to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
