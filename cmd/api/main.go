package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadp "pcaf-attribution/internal/adapter/http"
	idem "pcaf-attribution/internal/adapter/middleware"
	"pcaf-attribution/internal/app"
	"pcaf-attribution/internal/config"
	"pcaf-attribution/internal/infrastructure/cache"
	"pcaf-attribution/internal/infrastructure/logging"
	"pcaf-attribution/internal/infrastructure/metrics"
	"pcaf-attribution/internal/scheduler"
	"pcaf-attribution/internal/usecase/intake"
	"pcaf-attribution/internal/usecase/lifecycle"
	"pcaf-attribution/internal/usecase/portfolio"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("store unavailable")
	}
	defer store.Close()
	metrics.Init(store.SQL)

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis unavailable")
	}
	defer rdb.Close()

	intakeUC := intake.NewUsecase(store.UoW, store.Repos.Loans, store.Factors, logger)
	lifecycleUC := lifecycle.NewUsecase(store.UoW, store.Repos, cache.NewScheduleCache(rdb, cfg.ScheduleCacheTTL()), logger, cfg.BatchConcurrency)
	portfolioUC := portfolio.NewUsecase(store.Repos.Loans, logger)

	sched := scheduler.New(lifecycleUC, logger)
	if err := sched.Start(cfg.RecalcCron); err != nil {
		logger.Fatal().Err(err).Msg("scheduler")
	}
	defer sched.Stop()

	checks := map[string]httpadp.Check{
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
	if store.SQL != nil {
		checks["database"] = store.SQL.PingContext
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	// routes
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	httpadp.Routes{
		Health:    httpadp.NewHandler(checks),
		Loans:     httpadp.NewLoanHandler(intakeUC, lifecycleUC),
		Events:    httpadp.NewEventHandler(lifecycleUC),
		Portfolio: httpadp.NewPortfolioHandler(portfolioUC, lifecycleUC),
	}.Register(e, idem.Idempotency(rdb, cfg.IdempotencyTTL(), logger))

	addr := ":" + cfg.AppPort
	go func() {
		logger.Info().Str("addr", addr).Str("db_driver", cfg.DBDriver).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
}
