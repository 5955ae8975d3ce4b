package graph

import "github.com/aretw0/cortex/pkg/domain"

// ActivationEngine decays activation levels at a fixed rate per tick.
// It holds no timer; a scheduler calls Decay on a fixed cadence.
type ActivationEngine struct {
	rate float64
}

// NewActivationEngine creates an engine with the given decay rate per tick.
// A non-positive rate falls back to domain.DecayRate.
func NewActivationEngine(rate float64) *ActivationEngine {
	if rate <= 0 {
		rate = domain.DecayRate
	}
	return &ActivationEngine{rate: rate}
}

// Rate returns the decay applied per tick.
func (e *ActivationEngine) Rate() float64 {
	return e.rate
}

// Decay lowers every node and link activation by the rate, flooring at 0.
// Levels within domain.Epsilon of zero snap to exactly 0.
// It reports whether any level moved.
func (e *ActivationEngine) Decay(s *Store) bool {
	changed := false
	s.eachActivation(func(level *float64) {
		if *level == 0 {
			return
		}
		next := *level - e.rate
		if next < domain.Epsilon {
			next = 0
		}
		*level = next
		changed = true
	})
	return changed
}
