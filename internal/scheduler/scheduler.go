// Package scheduler runs the recurring background jobs of the service on cron
// schedules.
package scheduler

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps a cron runner with structured logging.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a stopped scheduler. Jobs panicking are recovered and logged
// instead of taking the process down.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		logger: logger,
	}
}

// AddJob schedules fn under the given cron spec.
func (s *Scheduler) AddJob(spec, name string, fn func()) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.logger.Info("Running scheduled job", slog.String("job", name))
		fn()
	})
	if err != nil {
		return err
	}
	s.logger.Info("Scheduled job", slog.String("job", name), slog.String("spec", spec))
	return nil
}

// Start begins running scheduled jobs in their own goroutines.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling new runs and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
