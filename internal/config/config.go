package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Database URLs. ClickHouse is optional; guess events then only feed the
	// Redis counters.
	PostgresURL   string
	ClickHouseURL string
	RedisURL      string

	// Worker pool
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration

	// Rate limiting
	RateLimitPerSecond int
	RateLimitBurst     int

	// Daily job
	DailySchedule string
	DailyLocation *time.Location
	ExclusionDays int
	RecentYears   int

	// Game
	SearchLimit     int
	ReportMaxLength int
}

// Load loads configuration from environment variables, reading a .env file
// first when one exists. It returns an error if critical configuration is
// missing.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		ClickHouseURL: getEnv("CLICKHOUSE_URL", ""),

		WorkerCount:   getEnvInt("WORKER_COUNT", 4),
		QueueSize:     getEnvInt("QUEUE_SIZE", 10000),
		BatchSize:     getEnvInt("BATCH_SIZE", 500),
		FlushInterval: getEnvDuration("FLUSH_INTERVAL", 1*time.Second),

		RateLimitPerSecond: getEnvInt("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),

		DailySchedule: getEnv("DAILY_SCHEDULE", "5 0 * * *"),
		ExclusionDays: getEnvInt("EXCLUSION_DAYS", 7),
		RecentYears:   getEnvInt("RECENT_YEARS", 2),

		SearchLimit:     getEnvInt("SEARCH_LIMIT", 10),
		ReportMaxLength: getEnvInt("REPORT_MAX_LENGTH", 300),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	rawOrigins := strings.Split(origins, ",")
	for _, o := range rawOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	loc, err := time.LoadLocation(getEnv("DAILY_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid DAILY_TIMEZONE: %w", err)
	}
	cfg.DailyLocation = loc

	if _, err := cron.ParseStandard(cfg.DailySchedule); err != nil {
		return nil, fmt.Errorf("invalid DAILY_SCHEDULE %q: %w", cfg.DailySchedule, err)
	}

	// Critical configuration - fail if missing
	if cfg.PostgresURL, err = getEnvRequired("POSTGRES_URL"); err != nil {
		return nil, err
	}
	if cfg.RedisURL, err = getEnvRequired("REDIS_URL"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
