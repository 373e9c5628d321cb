package scheduler

import (
	"context"
	"time"

	"pcaf-attribution/internal/infrastructure/logging"
	"pcaf-attribution/internal/usecase/lifecycle"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"
)

// BatchRunner is the part of the lifecycle usecase the scheduler drives.
type BatchRunner interface {
	BatchRecalculate(ctx context.Context, asOf time.Time) (*lifecycle.BatchResult, error)
}

// Scheduler runs the portfolio-wide recalculation on a cron schedule.
type Scheduler struct {
	runner  BatchRunner
	cron    *cron.Cron
	log     *log.Logger
	timeout time.Duration
}

func New(runner BatchRunner, logger *log.Logger) *Scheduler {
	return &Scheduler{
		runner: runner,
		// a slow run must not overlap the next tick
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:     logging.OrNop(logger),
		timeout: 30 * time.Minute,
	}
}

// Start registers spec (standard 5-field cron) and starts ticking. An empty
// spec disables the schedule.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		s.log.Info().Msg("recalculation schedule disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(spec, func() { _, _ = s.RunNow(context.Background()) }); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("schedule", spec).Msg("recalculation scheduler started")
	return nil
}

// Stop halts the schedule and waits for a running batch to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("recalculation scheduler stopped")
}

// RunNow runs one batch as of today and returns its result.
func (s *Scheduler) RunNow(ctx context.Context) (*lifecycle.BatchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.log.Info().Msg("starting scheduled recalculation")
	res, err := s.runner.BatchRecalculate(ctx, time.Time{})
	if err != nil {
		s.log.Error().Err(err).Msg("scheduled recalculation failed")
		return res, err
	}
	s.log.Info().
		Int("total", res.Total).
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Msg("scheduled recalculation completed")
	return res, nil
}
