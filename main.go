// Command pcaf-attribution runs one portfolio-wide recalculation and exits.
// The API server lives in cmd/api.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"pcaf-attribution/internal/app"
	"pcaf-attribution/internal/config"
	"pcaf-attribution/internal/infrastructure/logging"
	"pcaf-attribution/internal/usecase/lifecycle"
)

func main() {
	asOfFlag := flag.String("as-of", "", "recalculation date (YYYY-MM-DD), defaults to today")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	var asOf time.Time
	if *asOfFlag != "" {
		t, err := time.Parse("2006-01-02", *asOfFlag)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid -as-of")
		}
		asOf = t
	}

	ctx := context.Background()
	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("store unavailable")
	}
	defer store.Close()

	uc := lifecycle.NewUsecase(store.UoW, store.Repos, nil, logger, cfg.BatchConcurrency)
	res, err := uc.BatchRecalculate(ctx, asOf)
	if err != nil {
		logger.Error().Err(err).Msg("batch recalculation failed")
		os.Exit(1)
	}
	if res.Failed > 0 {
		os.Exit(2)
	}
}
