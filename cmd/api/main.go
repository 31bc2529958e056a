// Command api serves the daily esports player guessing game.
//
// @title Esportle API
// @version 1.0
// @description Daily "guess the pro player" game: hints, guesses and player search.
// @BasePath /api/v1
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/esportle/esportle-api/internal/app"
	"github.com/esportle/esportle-api/internal/config"
	"github.com/esportle/esportle-api/internal/handlers"
	"github.com/esportle/esportle-api/internal/logic"
	"github.com/esportle/esportle-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := app.NewLogger(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		sugar.Fatalw("Failed to connect to backing stores", "error", err)
	}
	defer a.Close()

	if a.ClickHouse != nil {
		if err := worker.EnsureSchema(ctx, a.ClickHouse); err != nil {
			sugar.Fatalw("Failed to create ClickHouse schema", "error", err)
		}
	}

	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount:   cfg.WorkerCount,
		QueueSize:     cfg.QueueSize,
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		ClickHouse:    a.ClickHouse,
		Redis:         a.Redis,
		Logger:        logger,
	})
	pool.Start(ctx)

	// A fresh deployment gets a game without waiting for the scheduler.
	if err := app.RunDaily(ctx, a.DailyService(), cfg.DailyLocation, time.Now(), logger); err != nil {
		sugar.Warnw("Startup daily selection did not complete", "error", err)
	}

	h := handlers.New(handlers.Config{
		Queue:      pool,
		Postgres:   a.Postgres,
		ClickHouse: clickHousePinger(a),
		Redis:      a.Redis,
		Logger:     logger,
		Game:       logic.NewGameService(a.Answers, a.Records),
		Guess:      logic.NewGuessService(a.Answers, a.ProfileService(), pool, logger),
		Search:     logic.NewSearchService(a.Records, cfg.SearchLimit),
		Report:     logic.NewReportService(a.Reports, cfg.ReportMaxLength),
		Stats:      logic.NewStatsService(a.Redis),
	})

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: handlers.NewRouter(h, handlers.RouterConfig{
			AllowedOrigins:     cfg.AllowedOrigins,
			RateLimitPerSecond: cfg.RateLimitPerSecond,
			RateLimitBurst:     cfg.RateLimitBurst,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("Starting API server", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Shutdown error", "error", err)
	}
	pool.Stop()
	sugar.Infow("Server stopped")
}

// clickHousePinger keeps a disabled ClickHouse out of the readiness checks.
func clickHousePinger(a *app.App) handlers.Pinger {
	if a.ClickHouse == nil {
		return nil
	}
	return a.ClickHouse
}
