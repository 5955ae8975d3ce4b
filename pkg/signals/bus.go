// Package signals animates thoughts travelling between brain regions.
package signals

import (
	"log/slog"

	"github.com/aretw0/cortex/internal/logging"
	"github.com/aretw0/cortex/pkg/domain"
	"github.com/aretw0/cortex/pkg/regions"
	"github.com/google/uuid"
)

// Bus owns the live signals. Not safe for concurrent use; the brain serializes access.
type Bus struct {
	catalog *regions.Catalog
	speed   float64
	live    []domain.Signal
	newID   func() string
	logger  *slog.Logger
}

// BusOption configures the Bus.
type BusOption func(*Bus)

// WithSpeed sets the default progress per tick.
func WithSpeed(speed float64) BusOption {
	return func(b *Bus) {
		if speed > 0 {
			b.speed = speed
		}
	}
}

// WithIDGenerator replaces the uuid-based id generator.
func WithIDGenerator(fn func() string) BusOption {
	return func(b *Bus) {
		b.newID = fn
	}
}

// WithLogger sets the logger used for ignored triggers.
func WithLogger(logger *slog.Logger) BusOption {
	return func(b *Bus) {
		b.logger = logger
	}
}

// NewBus creates an empty bus over the given catalog.
func NewBus(catalog *regions.Catalog, opts ...BusOption) *Bus {
	b := &Bus{
		catalog: catalog,
		speed:   domain.SignalSpeed,
		newID:   uuid.NewString,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Option customizes a single triggered signal.
type Option func(*domain.Signal)

// WithColor overrides the signal color (default: the source region's color).
func WithColor(color string) Option {
	return func(s *domain.Signal) {
		if color != "" {
			s.Color = color
		}
	}
}

// WithSignalSpeed overrides the speed of a single signal.
func WithSignalSpeed(speed float64) Option {
	return func(s *domain.Signal) {
		if speed > 0 {
			s.Speed = speed
		}
	}
}

// Trigger starts a signal between two region anchors.
// If either region is unknown nothing is created and ok is false.
func (b *Bus) Trigger(from, to domain.RegionID, opts ...Option) (domain.Signal, bool) {
	src, okFrom := b.catalog.Lookup(from)
	dst, okTo := b.catalog.Lookup(to)
	if !okFrom || !okTo {
		b.logger.Debug("signal ignored: unknown region", "from", from, "to", to)
		return domain.Signal{}, false
	}

	sig := domain.Signal{
		ID:       b.newID(),
		From:     src.ID,
		To:       dst.ID,
		Start:    src.Anchor,
		End:      dst.Anchor,
		Progress: 0,
		Speed:    b.speed,
		Color:    src.Color,
	}
	for _, opt := range opts {
		opt(&sig)
	}

	b.live = append(b.live, sig)
	return sig, true
}

// Advance moves every signal forward by its speed and retires the ones that arrived.
// It reports whether anything was live before the call.
func (b *Bus) Advance() bool {
	if len(b.live) == 0 {
		return false
	}

	kept := b.live[:0]
	for _, s := range b.live {
		s.Progress += s.Speed
		if s.Progress >= 1-domain.Epsilon {
			continue
		}
		kept = append(kept, s)
	}
	// Clear the tail so retired signals are not retained by the backing array.
	for i := len(kept); i < len(b.live); i++ {
		b.live[i] = domain.Signal{}
	}
	b.live = kept
	return true
}

// Live returns a copy of the signals in flight, in trigger order.
func (b *Bus) Live() []domain.Signal {
	out := make([]domain.Signal, len(b.live))
	copy(out, b.live)
	return out
}

// Len returns the number of signals in flight.
func (b *Bus) Len() int {
	return len(b.live)
}
