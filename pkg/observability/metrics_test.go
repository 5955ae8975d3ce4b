package observability_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/cortex"
	"github.com/aretw0/cortex/pkg/domain"
	"github.com/aretw0/cortex/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_FollowBrain(t *testing.T) {
	ctx := context.Background()
	m := observability.NewMetrics()

	var forwarded int
	hooks := m.Hooks(domain.LifecycleHooks{
		OnNode: func(context.Context, *domain.NodeEvent) { forwarded++ },
	})
	brain := cortex.New(cortex.WithLifecycleHooks(hooks))
	sub := brain.Subscribe(m)
	defer sub.Unsubscribe()

	_, err := brain.Ingest(ctx, domain.ExtractionResult{
		Nodes: []domain.ExtractedNode{{ID: "Dog"}, {ID: "Cat"}},
		Links: []domain.ExtractedLink{{Source: "Dog", Target: "Cat", Type: "chases"}},
	})
	require.NoError(t, err)
	_, _ = brain.Ingest(ctx, domain.ExtractionResult{Nodes: []domain.ExtractedNode{{ID: "Dog"}}})
	_, _ = brain.TriggerSignal(ctx, "visual", "logic")
	brain.Tick(ctx)

	assert.Equal(t, 3, forwarded, "chained hooks still run")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	body := w.Body.String()

	for _, want := range []string{
		`cortex_events_total{type="node_created"} 2`,
		`cortex_events_total{type="node_reinforced"} 1`,
		`cortex_events_total{type="link_created"} 1`,
		`cortex_events_total{type="signal_fired"} 1`,
		"cortex_nodes 2",
		"cortex_links 1",
		"cortex_signals_live 1",
		"cortex_nodes_active 2",
		"cortex_tick_duration_seconds_count 1",
	} {
		assert.Contains(t, body, want)
	}
}

func TestMetrics_OnSnapshot(t *testing.T) {
	m := observability.NewMetrics()

	m.OnSnapshot(domain.Snapshot{
		Version: 9,
		Nodes:   []domain.Node{{ID: "a", ActivationLevel: 0.5}, {ID: "b"}},
	})

	count, err := testutil.GatherAndCount(m.Registry(), "cortex_nodes", "cortex_snapshot_version")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, w.Body.String(), "cortex_snapshot_version 9")
	assert.Contains(t, w.Body.String(), "cortex_nodes_active 1")
}
