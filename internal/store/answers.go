package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/esportle/esportle-api/internal/models"
)

const (
	answerKeyPrefix = "daily_answer:"
	// answerDatesKey is a sorted set of every stored day, scored yyyymmdd.
	answerDatesKey = "daily_answer:dates"
)

// AnswerRedis is the subset of *redis.Client used by AnswerStore.
type AnswerRedis interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	ZAddNX(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd
	ZRevRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// AnswerStore keeps one JSON document per day. SETNX makes every record
// write-once, so concurrent jobs racing on a day keep the first write.
type AnswerStore struct {
	rdb AnswerRedis
}

func NewAnswerStore(rdb AnswerRedis) *AnswerStore {
	return &AnswerStore{rdb: rdb}
}

func answerKey(date string) string {
	return answerKeyPrefix + date
}

func dateScore(date string) (float64, error) {
	n, err := strconv.Atoi(strings.ReplaceAll(date, "-", ""))
	if err != nil {
		return 0, fmt.Errorf("invalid day key %q: %w", date, err)
	}
	return float64(n), nil
}

func (s *AnswerStore) GetByDate(ctx context.Context, date string) (*models.DailyAnswerRecord, error) {
	raw, err := s.rdb.Get(ctx, answerKey(date)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get answer for %s: %w", date, err)
	}

	var record models.DailyAnswerRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("failed to decode answer for %s: %w", date, err)
	}
	return &record, nil
}

func (s *AnswerStore) GetMostRecent(ctx context.Context, n int) ([]models.DailyAnswerRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	dates, err := s.rdb.ZRevRange(ctx, answerDatesKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list answer dates: %w", err)
	}
	if len(dates) == 0 {
		return nil, nil
	}

	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = answerKey(d)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}

	records := make([]models.DailyAnswerRecord, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Indexed but missing.
			continue
		}
		var record models.DailyAnswerRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("failed to decode answer for %s: %w", dates[i], err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *AnswerStore) InsertIfAbsent(ctx context.Context, record models.DailyAnswerRecord) (bool, error) {
	score, err := dateScore(record.Date)
	if err != nil {
		return false, err
	}
	data, err := json.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("failed to encode answer for %s: %w", record.Date, err)
	}

	inserted, err := s.rdb.SetNX(ctx, answerKey(record.Date), data, 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to store answer for %s: %w", record.Date, err)
	}

	// Runs even when the record already exists, so a retry indexes a record
	// whose earlier index write failed.
	if err := s.rdb.ZAddNX(ctx, answerDatesKey, redis.Z{Score: score, Member: record.Date}).Err(); err != nil {
		return inserted, fmt.Errorf("failed to index answer for %s: %w", record.Date, err)
	}
	return inserted, nil
}
