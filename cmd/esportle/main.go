// Command esportle is the operations CLI: schema migrations, data imports,
// daily answer selection and profile inspection.
//
// Usage:
//
//	esportle migrate
//	esportle import dump.json
//	esportle daily run
//	esportle daily schedule
//	esportle profile faker
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/esportle/esportle-api/internal/app"
	"github.com/esportle/esportle-api/internal/config"
	"github.com/esportle/esportle-api/internal/logic"
	"github.com/esportle/esportle-api/internal/models"
	"github.com/esportle/esportle-api/internal/store"
)

func main() {
	root := &cobra.Command{
		Use:          "esportle",
		Short:        "Esportle operations CLI",
		SilenceUsage: true,
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(importCmd())
	root.AddCommand(dailyCmd())
	root.AddCommand(profileCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and a logger for a command run.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := app.NewLogger(cfg.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

// withPostgres runs fn with a pool to the record database.
func withPostgres(fn func(ctx context.Context, cfg *config.Config, pg *pgxpool.Pool, logger *zap.Logger) error) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("failed to create postgres pool: %w", err)
	}
	defer pg.Close()

	return fn(ctx, cfg, pg, logger)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()
			return store.Migrate(cfg.PostgresURL, logger)
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dump.json>",
		Short: "Upsert a scraper dump into the record database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var dump models.Dump
			if err := json.NewDecoder(f).Decode(&dump); err != nil {
				return fmt.Errorf("failed to decode %s: %w", args[0], err)
			}

			return withPostgres(func(ctx context.Context, cfg *config.Config, pg *pgxpool.Pool, logger *zap.Logger) error {
				start := time.Now()
				summary, err := store.Import(ctx, pg, &dump)
				if err != nil {
					return err
				}
				logger.Sugar().Infow("Import finished",
					"players", summary.Players,
					"teams", summary.Teams,
					"tournaments", summary.Tournaments,
					"results", summary.Results,
					"duration", time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
}

func dailyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Select daily answers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Fill in today's and yesterday's answers if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				return app.RunDaily(ctx, a.DailyService(), a.Config.DailyLocation, time.Now(), a.Logger)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "schedule",
		Short: "Run the daily selection on DAILY_SCHEDULE until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				daily := a.DailyService()
				s, err := app.NewScheduler(a.Config.DailySchedule, a.Config.DailyLocation, daily, a.Logger)
				if err != nil {
					return err
				}
				if err := app.RunDaily(ctx, daily, a.Config.DailyLocation, time.Now(), a.Logger); err != nil {
					a.Logger.Sugar().Warnw("Startup daily selection did not complete", "error", err)
				}
				s.Start()
				<-ctx.Done()
				s.Stop()
				return nil
			})
		},
	})
	return cmd
}

func withApp(fn func(ctx context.Context, a *app.App) error) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile <playerId>",
		Short: "Print the comparable profile built for a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPostgres(func(ctx context.Context, cfg *config.Config, pg *pgxpool.Pool, logger *zap.Logger) error {
				profile, err := logic.NewProfileService(store.NewRecordStore(pg)).LoadProfile(ctx, args[0])
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(profile)
			})
		},
	}
}
