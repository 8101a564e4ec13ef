package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartRunsJobImmediately(t *testing.T) {
	var runs atomic.Int32

	s := NewIntervalScheduler(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx, func(time.Time) { runs.Add(1) }))

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(ctx))
}

func TestStartTicksAtInterval(t *testing.T) {
	var runs atomic.Int32

	s := NewIntervalScheduler(10 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx, func(time.Time) { runs.Add(1) }))

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(ctx))
}

func TestStopHaltsTicking(t *testing.T) {
	var runs atomic.Int32

	s := NewIntervalScheduler(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, s.Start(ctx, func(time.Time) { runs.Add(1) }))
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(ctx))

	settled := runs.Load()
	time.Sleep(50 * time.Millisecond)
	require.LessOrEqual(t, runs.Load(), settled+1, "ticker must stop after Stop")
}

func TestStopDuringJobPreventsFurtherRuns(t *testing.T) {
	var runs atomic.Int32

	s := NewIntervalScheduler(5 * time.Millisecond)

	// Deliberately no context cancellation: Stop alone must halt the
	// goroutine even when it lands while a job is still in flight.
	require.NoError(t, s.Start(context.Background(), func(time.Time) {
		runs.Add(1)
		time.Sleep(30 * time.Millisecond)
	}))

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	// Let the in-flight job drain, then confirm no new job starts.
	time.Sleep(60 * time.Millisecond)
	settled := runs.Load()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, settled, runs.Load(), "no job may start after Stop returns")
}

func TestStopIsIdempotent(t *testing.T) {
	s := NewIntervalScheduler(time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Start(ctx, func(time.Time) {}))
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
}

func TestStartNilJob(t *testing.T) {
	s := NewIntervalScheduler(time.Millisecond)
	require.NoError(t, s.Start(context.Background(), nil))
	require.NoError(t, s.Stop(context.Background()))
}

func TestJobRunsSequentially(t *testing.T) {
	var inFlight atomic.Int32
	var overlapped atomic.Bool

	s := NewIntervalScheduler(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx, func(time.Time) {
		if inFlight.Add(1) > 1 {
			overlapped.Store(true)
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
	}))

	time.Sleep(60 * time.Millisecond)
	require.NoError(t, s.Stop(ctx))
	require.False(t, overlapped.Load(), "cycles must never run concurrently")
}
