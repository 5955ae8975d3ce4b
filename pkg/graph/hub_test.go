package graph_test

import (
	"testing"

	"github.com/aretw0/cortex/pkg/domain"
	"github.com/aretw0/cortex/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_SubscribeDeliversCurrent(t *testing.T) {
	h := graph.NewHub()

	var got []uint64
	h.Subscribe(graph.ObserverFunc(func(s domain.Snapshot) {
		got = append(got, s.Version)
	}), domain.Snapshot{Version: 7})

	assert.Equal(t, []uint64{7}, got)
}

func TestHub_PublishOrder(t *testing.T) {
	h := graph.NewHub()

	var order []string
	record := func(name string) graph.Observer {
		return graph.ObserverFunc(func(s domain.Snapshot) {
			if s.Version > 0 {
				order = append(order, name)
			}
		})
	}

	h.Subscribe(record("first"), domain.Snapshot{})
	h.Subscribe(record("second"), domain.Snapshot{})
	h.Subscribe(record("third"), domain.Snapshot{})

	h.Publish(domain.Snapshot{Version: 1})
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestHub_Unsubscribe(t *testing.T) {
	h := graph.NewHub()

	calls := 0
	sub := h.Subscribe(graph.ObserverFunc(func(domain.Snapshot) { calls++ }), domain.Snapshot{})
	require.Equal(t, 1, h.Len())

	sub.Unsubscribe()
	sub.Unsubscribe() // no-op
	assert.Equal(t, 0, h.Len())

	h.Publish(domain.Snapshot{Version: 1})
	assert.Equal(t, 1, calls, "only the initial delivery")
}

func TestHub_ObserversGetIndependentCopies(t *testing.T) {
	h := graph.NewHub()

	var a, b domain.Snapshot
	h.Subscribe(graph.ObserverFunc(func(s domain.Snapshot) {
		if len(s.Nodes) > 0 {
			s.Nodes[0].Label = "mutated"
		}
		a = s
	}), domain.Snapshot{})
	h.Subscribe(graph.ObserverFunc(func(s domain.Snapshot) { b = s }), domain.Snapshot{})

	h.Publish(domain.Snapshot{Nodes: []domain.Node{{ID: "x", Label: "x"}}})
	assert.Equal(t, "mutated", a.Nodes[0].Label)
	assert.Equal(t, "x", b.Nodes[0].Label)
}
