// Package app opens the backing stores and assembles the game services shared
// by the API server and the esportle CLI.
package app

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/esportle/esportle-api/internal/config"
	"github.com/esportle/esportle-api/internal/logic"
	"github.com/esportle/esportle-api/internal/store"
)

// NewLogger builds a JSON production logger for ENV=production and a
// console development logger otherwise.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Postgres *pgxpool.Pool
	Redis    *redis.Client
	// ClickHouse is nil when CLICKHOUSE_URL is unset.
	ClickHouse driver.Conn

	Records *store.RecordStore
	Answers *store.AnswerStore
	Reports *store.ReportStore
}

// Open connects to Postgres, Redis and, when configured, ClickHouse.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	sugar := logger.Sugar()

	pg, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	sugar.Infow("Connected to Postgres")

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		pg.Close()
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		pg.Close()
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	sugar.Infow("Connected to Redis")

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Postgres: pg,
		Redis:    rdb,
		Records:  store.NewRecordStore(pg),
		Answers:  store.NewAnswerStore(rdb),
		Reports:  store.NewReportStore(pg),
	}

	if cfg.ClickHouseURL == "" {
		sugar.Infow("ClickHouse disabled, guess analytics only update Redis counters")
		return a, nil
	}
	chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to parse clickhouse dsn: %w", err)
	}
	ch, err := clickhouse.Open(chOpts)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open clickhouse: %w", err)
	}
	if err := ch.Ping(ctx); err != nil {
		ch.Close()
		a.Close()
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}
	a.ClickHouse = ch
	sugar.Infow("Connected to ClickHouse")
	return a, nil
}

func (a *App) Close() {
	if a.ClickHouse != nil {
		a.ClickHouse.Close()
	}
	a.Redis.Close()
	a.Postgres.Close()
}

func (a *App) ProfileService() logic.ProfileService {
	return logic.NewProfileService(a.Records)
}

// DailyService builds the answer selection job from configuration.
func (a *App) DailyService() logic.DailyService {
	return NewDailyService(a.Config, a.Records, a.Answers, a.Logger)
}

// NewDailyService wires selection and hint generation to the given stores.
func NewDailyService(cfg *config.Config, records logic.RecordStore, answers logic.AnswerStore, logger *zap.Logger) logic.DailyService {
	selector := logic.NewSelector(records, cfg.RecentYears)
	hints := logic.NewHintGenerator(records, nil)
	return logic.NewDailyService(answers, selector, hints, cfg.ExclusionDays, logger)
}
