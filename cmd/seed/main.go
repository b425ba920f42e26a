package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/rs/zerolog"

	"storefront-api/internal/config"
	"storefront-api/internal/logging"
	"storefront-api/internal/seed"
	"storefront-api/internal/store"
)

func main() {
	withAdmin := flag.Bool("admin-role", false, "also create an admin role and print its id")
	flag.Parse()

	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, "seed")

	if err := run(context.Background(), cfg, logger, *withAdmin); err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("seed failed")
	}
	logger.Info().Msg("seed applied")
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger, withAdmin bool) error {
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close(context.Background())

	if err := seed.Apply(ctx, st.Products, logger); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	if withAdmin {
		role, err := seed.AdminRole(ctx, st.Roles)
		if err != nil {
			return fmt.Errorf("seed admin role: %w", err)
		}
		logger.Info().Str("role_id", role.ID).Msg("admin role created")
	}
	return nil
}
