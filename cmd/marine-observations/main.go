package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/logger"

	httpapi "github.com/i474232898/marine-observations/internal/api/http"
	"github.com/i474232898/marine-observations/internal/config"
	"github.com/i474232898/marine-observations/internal/logging"
	"github.com/i474232898/marine-observations/internal/marine"
	"github.com/i474232898/marine-observations/internal/marine/providers"
	"github.com/i474232898/marine-observations/internal/scheduler"
	"github.com/i474232898/marine-observations/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.DotEnvErr(); err != nil {
		lg.Info().Err(err).Msg("no .env file loaded; using environment only")
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Observation cache with configured TTL and capacity.
	cache := store.NewTTLCache[marine.Observation](
		cfg.CacheTTL,
		cfg.CacheMaxEntries,
		store.WithSweepProbability(cfg.CacheSweepProbability),
	)

	var provider marine.Provider
	if cfg.UseMockData {
		lg.Warn().Msg("USE_MOCK_DATA is set; serving canned observations")
		provider = providers.NewMockProvider(nil)
	} else {
		provider = providers.NewNDBCProvider(httpClient, cfg.NDBCBaseURL, cfg.UserAgent, lg.With().Str("provider", "ndbc").Logger())
	}

	// Core service orchestrating validation, cache and provider.
	service := marine.NewService(cache, provider,
		marine.WithLogger(lg.With().Str("component", "marine").Logger()),
		marine.WithCoalescing(cfg.CoalesceFetches),
	)

	// Background warm refresh and cache sweep.
	sched := scheduler.New(scheduler.Config{
		WarmStations:  cfg.WarmStations,
		WarmInterval:  cfg.WarmInterval,
		SweepInterval: cfg.CacheSweepInterval,
		FetchTimeout:  cfg.HTTPTimeout,
	}, service, cache, lg.With().Str("component", "scheduler").Logger())
	if err := sched.Start(); err != nil {
		lg.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	app := httpapi.NewApp(service, logger.New())

	go func() {
		lg.Info().Str("port", cfg.Port).Msg("listening; API available at /api/marine/:station")
		if err := app.Listen(":" + cfg.Port); err != nil {
			lg.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("error during shutdown")
	}
}
