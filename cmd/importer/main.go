package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"storefront-api/internal/config"
	"storefront-api/internal/importer"
	"storefront-api/internal/logging"
	"storefront-api/internal/store"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to product CSV (name,description,price,image_url,stock)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, "importer")

	start := time.Now()
	res, err := run(context.Background(), cfg, logger, filePath)
	if err != nil {
		logger.Fatal().Err(err).Int("imported", res.Total()).Msg("import failed")
	}

	fmt.Printf("Imported %d products (%d new, %d updated) in %s\n", res.Total(), res.Created, res.Updated, time.Since(start).Truncate(time.Millisecond))
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger, filePath string) (importer.Result, error) {
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return importer.Result{}, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer st.Close(context.Background())

	f, err := os.Open(filePath)
	if err != nil {
		return importer.Result{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return importer.NewCSVImporter(f, st.Products, logger).Run(ctx)
}
