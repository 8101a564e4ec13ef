package usecase

import (
	"context"
	"log/slog"
	"time"

	"versepulse/internal/ports"
)

// Scheduler binds the interval driver to the monitor cycle.
type Scheduler struct {
	driver  ports.Scheduler
	monitor *Monitor
	logger  *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring checks.
func NewScheduler(driver ports.Scheduler, monitor *Monitor, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, monitor: monitor, logger: logger}
}

// Start registers the monitor cycle with the provided driver. Cycle
// errors are logged, never fatal: the next tick retries from the ledger.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.monitor == nil {
		return nil
	}

	job := func(time.Time) {
		if err := s.monitor.RunCycle(ctx); err != nil && s.logger != nil {
			s.logger.Error("check cycle failed", "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
