package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is one periodic sweep. Run reports how many rows it touched.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) (int, error)
}

// Scheduler runs sweeps on cron schedules in UTC. A job that is still running
// when its next tick fires is skipped for that tick.
type Scheduler struct {
	cron    *cron.Cron
	jobs    []Job
	log     zerolog.Logger
	timeout time.Duration
}

func New(log zerolog.Logger, timeout time.Duration, jobs ...Job) (*Scheduler, error) {
	cronLog := log.With().Str("component", "cron").Logger()
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.Recover(cron.PrintfLogger(&cronLog)), cron.SkipIfStillRunning(cron.PrintfLogger(&cronLog))),
	)

	s := &Scheduler{cron: c, jobs: jobs, log: log, timeout: timeout}
	for _, job := range jobs {
		job := job
		if _, err := c.AddFunc(job.Spec, func() { s.run(context.Background(), job) }); err != nil {
			return nil, fmt.Errorf("schedule %s (%q): %w", job.Name, job.Spec, err)
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.log.Info().Int("jobs", len(s.jobs)).Msg("scheduler started")
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs or ctx, whichever ends
// first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out with jobs still running")
	}
}

// RunAll runs every job once in order and returns the first error.
func (s *Scheduler) RunAll(ctx context.Context) error {
	var firstErr error
	for _, job := range s.jobs {
		if err := s.run(ctx, job); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Scheduler) run(ctx context.Context, job Job) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	n, err := job.Run(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("job", job.Name).Dur("took", time.Since(start)).Msg("job failed")
		return fmt.Errorf("%s: %w", job.Name, err)
	}
	s.log.Info().Str("job", job.Name).Int("affected", n).Dur("took", time.Since(start)).Msg("job finished")
	return nil
}
