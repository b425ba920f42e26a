package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"storefront-api/internal/config"
	"storefront-api/internal/db"
	"storefront-api/internal/logging"
	"storefront-api/internal/migrate"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, "migrate")

	if cfg.StoreDriver != config.DriverPostgres {
		logger.Warn().Str("driver", cfg.StoreDriver).Msg("migrations only apply to the postgres driver; running against DB_DSN anyway")
	}

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("migrate failed")
	}
	logger.Info().Msg("migrations applied")
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	pool, err := db.ConnectPostgres(ctx, cfg.DBConnString)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool, logger); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
