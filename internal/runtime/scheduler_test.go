package runtime

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_TicksUntilCancelled(t *testing.T) {
	var count atomic.Int64
	s := NewScheduler(TickerFunc(func(context.Context) { count.Add(1) }), WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return count.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	stopped := count.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, count.Load(), "no ticks after shutdown")
	assert.Equal(t, uint64(stopped), s.Ticks())
}

func TestScheduler_Stop(t *testing.T) {
	s := NewScheduler(TickerFunc(func(context.Context) {}), WithInterval(time.Millisecond))
	s.Stop() // before Run: no-op

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	require.Eventually(t, func() bool { return s.Ticks() > 0 }, time.Second, time.Millisecond)
	s.Stop()
	s.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Stop did not end Run")
	}
}

func TestScheduler_TicksNeverOverlap(t *testing.T) {
	var inFlight, overlaps atomic.Int32
	s := NewScheduler(TickerFunc(func(context.Context) {
		if inFlight.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(3 * time.Millisecond)
		inFlight.Add(-1)
	}), WithInterval(time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Run(ctx))
	assert.Zero(t, overlaps.Load())
}

func TestScheduler_Defaults(t *testing.T) {
	s := NewScheduler(TickerFunc(func(context.Context) {}), WithInterval(-1))
	assert.Equal(t, DefaultInterval, s.Interval())
}

func TestScheduler_CatchesUpMissedTicks(t *testing.T) {
	interval := 10 * time.Millisecond
	clock := time.Unix(0, 0)

	var ran []time.Time
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewScheduler(TickerFunc(func(context.Context) {
		ran = append(ran, clock)
		if len(ran) == 1 {
			clock = clock.Add(3 * interval) // slow tick
		}
		if len(ran) == 6 {
			cancel()
		}
	}), WithInterval(interval))

	var waits []time.Duration
	s.now = func() time.Time { return clock }
	s.sleep = func(ctx context.Context, d time.Duration) bool {
		waits = append(waits, d)
		clock = clock.Add(d)
		return ctx.Err() == nil
	}

	require.NoError(t, s.Run(ctx))

	assert.Equal(t, uint64(6), s.Ticks())
	// Ticks 1, 5 and 6 waited, plus the wait cut short by cancellation.
	assert.Equal(t, []time.Duration{interval, interval, interval, interval}, waits,
		"ticks 2 to 4 were overdue and ran without waiting")
	start := time.Unix(0, 0)
	assert.Equal(t, []time.Time{
		start.Add(interval),
		start.Add(4 * interval),
		start.Add(4 * interval),
		start.Add(4 * interval),
		start.Add(5 * interval),
		start.Add(6 * interval),
	}, ran)
}
