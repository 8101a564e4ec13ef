package scheduler

import (
	"context"
	"time"

	"versepulse/internal/ports"
)

// IntervalScheduler drives one job at a fixed interval on a single
// goroutine. The job runs synchronously, so a tick arriving while a run is
// still in flight is dropped by the ticker instead of starting a
// concurrent cycle.
type IntervalScheduler struct {
	interval time.Duration
	stop     chan struct{}
	stopped  bool
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// NewIntervalScheduler builds a scheduler with the given period.
func NewIntervalScheduler(interval time.Duration) *IntervalScheduler {
	return &IntervalScheduler{interval: interval}
}

// Start fires the job once immediately, then on every tick until the
// context is canceled or Stop is called.
func (s *IntervalScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if s.stop != nil {
		return nil
	}

	// The goroutine owns this captured channel; Stop only ever closes it.
	stop := make(chan struct{})
	s.stop = stop
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			// A stop that landed while a job was in flight must win over
			// any tick queued during that job.
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			default:
			}

			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine. Safe to call more than once.
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	if s.stop == nil || s.stopped {
		return nil
	}
	s.stopped = true
	close(s.stop)
	return nil
}
