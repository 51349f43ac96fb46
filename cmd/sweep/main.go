package main

import (
	"context"
	"os"
	"os/signal"

	"gallopmart/internal/app"
	"gallopmart/internal/config"
	"gallopmart/internal/database"
	"gallopmart/internal/pkg/logger"
)

// sweep runs every maintenance job once and exits. Useful from an external
// cron when the API runs with SCHEDULER_ENABLED=false.
func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Options{ServiceName: "sweep"})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(logger.Options{
		ServiceName: "sweep",
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	a, err := app.New(cfg, db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build app")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := a.Scheduler.RunAll(ctx); err != nil {
		log.Error().Err(err).Msg("sweep finished with errors")
		os.Exit(1)
	}
	log.Info().Msg("sweep completed")
}
