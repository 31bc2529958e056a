package logic

import (
	"context"
	"fmt"
	"strconv"

	"github.com/esportle/esportle-api/internal/models"
)

type statsService struct {
	redis RedisClient
}

func NewStatsService(redis RedisClient) StatsService {
	return &statsService{redis: redis}
}

// GetDayStats reads the guess counters the analytics workers keep per mode.
func (s *statsService) GetDayStats(ctx context.Context, dayKey string) (*models.DayStats, error) {
	stats := &models.DayStats{
		Date:  dayKey,
		Modes: make(map[models.Mode]models.ModeStats, len(models.AllModes)),
	}
	for _, mode := range models.AllModes {
		fields, err := s.redis.HGetAll(ctx, models.StatsKey(dayKey, mode)).Result()
		if err != nil {
			return nil, fmt.Errorf("load stats for %s %s: %w", dayKey, mode, err)
		}
		stats.Modes[mode] = models.ModeStats{
			Guesses: parseCounter(fields[models.StatsFieldGuesses]),
			Solves:  parseCounter(fields[models.StatsFieldSolves]),
		}
	}
	return stats, nil
}

func parseCounter(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
