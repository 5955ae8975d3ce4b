package ports

import (
	"context"

	"github.com/aretw0/cortex/pkg/domain"
	"github.com/aretw0/cortex/pkg/graph"
	"github.com/aretw0/cortex/pkg/signals"
)

// Ingester integrates extraction results.
type Ingester interface {
	// Ingest classifies, places, integrates and activates the extracted concepts.
	// A non-nil error lists rejected candidates; the rest of the batch still applies.
	Ingest(ctx context.Context, result domain.ExtractionResult) (bool, error)

	// ActivateConcepts fully activates the given concepts and the links between them.
	ActivateConcepts(ctx context.Context, ids []string) bool
}

// Signaller starts signals between regions.
type Signaller interface {
	// TriggerSignal returns the signal id, or "" and false when a region is unknown.
	TriggerSignal(ctx context.Context, from, to domain.RegionID, opts ...signals.Option) (string, bool)
}

// Reader exposes the current brain to renderers and language models.
type Reader interface {
	Snapshot() domain.Snapshot
	Subscribe(o graph.Observer) *graph.Subscription
	Describe() string
	Regions() []domain.Region
}

// Brain is the full surface adapters drive.
type Brain interface {
	Ingester
	Signaller
	Reader
}
