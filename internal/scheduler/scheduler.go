package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// Refresher reloads one station into the cache.
type Refresher interface {
	Refresh(ctx context.Context, station string) error
}

// Sweeper drops expired cache entries.
type Sweeper interface {
	Sweep() int
}

// Config selects which background jobs run. A zero interval disables its job.
type Config struct {
	WarmStations  []string
	WarmInterval  time.Duration
	SweepInterval time.Duration
	FetchTimeout  time.Duration
}

// Scheduler periodically refreshes warm stations and sweeps the cache.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	sweeper   Sweeper
	cfg       Config
	logger    zerolog.Logger
}

// New creates a new Scheduler.
func New(cfg Config, refresher Refresher, sweeper Sweeper, logger zerolog.Logger) *Scheduler {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		sweeper:   sweeper,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start schedules the configured jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	jobs := 0

	if len(s.cfg.WarmStations) > 0 && s.cfg.WarmInterval > 0 && s.refresher != nil {
		if _, err := s.scheduler.Every(s.cfg.WarmInterval).Do(s.RefreshWarm); err != nil {
			return err
		}
		jobs++
	}

	if s.cfg.SweepInterval > 0 && s.sweeper != nil {
		if _, err := s.scheduler.Every(s.cfg.SweepInterval).Do(s.Sweep); err != nil {
			return err
		}
		jobs++
	}

	if jobs == 0 {
		s.logger.Info().Msg("scheduler: no background jobs configured")
		return nil
	}

	s.scheduler.StartAsync()
	return nil
}

// RefreshWarm refreshes every warm station concurrently and waits for all of them.
func (s *Scheduler) RefreshWarm() {
	s.logger.Debug().Int("stations", len(s.cfg.WarmStations)).Msg("scheduler: refreshing warm stations")

	var wg sync.WaitGroup
	for _, station := range s.cfg.WarmStations {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FetchTimeout)
			defer cancel()

			if err := s.refresher.Refresh(ctx, station); err != nil {
				s.logger.Warn().Err(err).Str("station", station).Msg("scheduler: warm refresh failed")
			}
		}()
	}
	wg.Wait()
}

// Sweep runs one cache sweep.
func (s *Scheduler) Sweep() {
	if n := s.sweeper.Sweep(); n > 0 {
		s.logger.Debug().Int("removed", n).Msg("scheduler: swept expired cache entries")
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
