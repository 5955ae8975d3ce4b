package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/cortex/internal/logging"
)

// DefaultInterval is the reference tick cadence.
const DefaultInterval = 100 * time.Millisecond

// Ticker is the unit of work driven on every tick (cortex.Brain satisfies it).
type Ticker interface {
	Tick(ctx context.Context)
}

// TickerFunc adapts a function to Ticker.
type TickerFunc func(ctx context.Context)

// Tick calls f(ctx).
func (f TickerFunc) Tick(ctx context.Context) { f(ctx) }

// Scheduler drives a Ticker on a fixed cadence.
// Ticks run one at a time, in order; a tick in flight always completes before Run returns.
// Ticks are never skipped: intervals missed behind a slow tick run back to back.
type Scheduler struct {
	target   Ticker
	interval time.Duration
	logger   *slog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool

	mu     sync.Mutex
	cancel context.CancelFunc
	ticks  uint64
}

// SchedulerOption configures the Scheduler.
type SchedulerOption func(*Scheduler)

// WithInterval sets the tick cadence.
func WithInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the scheduler logger.
func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// NewScheduler creates a scheduler for target.
func NewScheduler(target Ticker, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		target:   target,
		interval: DefaultInterval,
		logger:   logging.NewNop(),
		now:      time.Now,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run blocks, ticking until ctx is cancelled or Stop is called. It returns nil on clean shutdown.
// Tick n is due at start + n*interval.
func (s *Scheduler) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	s.logger.Info("scheduler started", "interval", s.interval)
	next := s.now().Add(s.interval)
	for {
		if wait := next.Sub(s.now()); wait > 0 {
			if !s.sleep(ctx, wait) {
				break
			}
		} else if ctx.Err() != nil {
			break
		} else if behind := -wait; behind >= s.interval {
			s.logger.Debug("scheduler catching up", "behind", behind)
		}

		s.target.Tick(ctx)
		s.mu.Lock()
		s.ticks++
		s.mu.Unlock()
		next = next.Add(s.interval)
	}

	s.logger.Info("scheduler stopped", "ticks", s.Ticks())
	return nil
}

// Stop ends a running Run. Calling it before Run or more than once is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Ticks returns how many ticks have completed.
func (s *Scheduler) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Interval returns the tick cadence.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// sleepContext waits for d and reports false if ctx ended first.
func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
