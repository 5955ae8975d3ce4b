/*
Package cortex maintains an evolving associative knowledge graph, "the brain",
built from short natural-language statements.

The brain receives structured extraction results (concepts and relations found
by an external language model), places every concept inside a semantic region,
reinforces what it already knows, and lets activation fade over time. Observers
receive an immutable snapshot after every change, which makes the brain easy to
embed behind any interface: a 3D renderer, an HTTP API, or an MCP tool server.

# Concept

  - Regions are static semantic areas (visual, language, motor, memory, logic, emotion).
  - Concepts become Nodes anchored in a region. Mentioning a concept again reinforces it.
  - Relations become directional Links. They may point at concepts the brain has not met yet.
  - Activation decays on every tick; mentioning or activating a concept lights it up again.
  - Signals travel between region anchors and disappear when they arrive.

Nothing is ever forgotten: nodes and links only accumulate.

# Usage

	package main

	import (
		"context"
		"fmt"
		"time"

		"github.com/aretw0/cortex"
		"github.com/aretw0/cortex/pkg/domain"
		"github.com/aretw0/cortex/pkg/graph"
	)

	func main() {
		ctx := context.Background()
		brain := cortex.New()

		sub := brain.Subscribe(graph.ObserverFunc(func(s domain.Snapshot) {
			fmt.Printf("v%d: %d concepts\n", s.Version, len(s.Nodes))
		}))
		defer sub.Unsubscribe()

		_, _ = brain.Ingest(ctx, domain.ExtractionResult{
			Nodes: []domain.ExtractedNode{{ID: "Dog", Group: "Living", Category: "motor"}},
		})

		// Drive decay and signals on the reference cadence.
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			brain.Tick(ctx)
		}
	}
*/
package cortex
