package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/esportle/esportle-api/internal/logic"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// QueueDepther reports the backlog of the guess analytics pool
type QueueDepther interface {
	QueueDepth() int
}

// Pinger is satisfied by *pgxpool.Pool and clickhouse driver.Conn
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisPinger is satisfied by *redis.Client
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type Config struct {
	Queue    QueueDepther
	Postgres Pinger
	// ClickHouse is nil when analytics storage is disabled.
	ClickHouse Pinger
	Redis      RedisPinger
	Logger     *zap.Logger
	// Services
	Game   logic.GameService
	Guess  logic.GuessService
	Search logic.SearchService
	Report logic.ReportService
	Stats  logic.StatsService
}

type Handler struct {
	queue     QueueDepther
	pg        Pinger
	ch        Pinger
	redis     RedisPinger
	logger    *zap.SugaredLogger
	validator *validator.Validate
	game      logic.GameService
	guess     logic.GuessService
	search    logic.SearchService
	report    logic.ReportService
	stats     logic.StatsService
}

func New(cfg Config) *Handler {
	return &Handler{
		queue:     cfg.Queue,
		pg:        cfg.Postgres,
		ch:        cfg.ClickHouse,
		redis:     cfg.Redis,
		logger:    cfg.Logger.Sugar(),
		validator: validator.New(),
		game:      cfg.Game,
		guess:     cfg.Guess,
		search:    cfg.Search,
		report:    cfg.Report,
		stats:     cfg.Stats,
	}
}
