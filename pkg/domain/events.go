package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeCreated    EventType = "node_created"
	EventNodeReinforced EventType = "node_reinforced"
	EventLinkCreated    EventType = "link_created"
	EventLinkReinforced EventType = "link_reinforced"
	EventSignalFired    EventType = "signal_fired"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NodeEvent is emitted when a concept is created or reinforced.
type NodeEvent struct {
	EventBase
	NodeID   string   `json:"node_id"`
	Region   RegionID `json:"region"`
	Strength float64  `json:"strength"`
}

// LinkEvent is emitted when a relation is created or reinforced.
type LinkEvent struct {
	EventBase
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	LinkType string  `json:"link_type"`
	Strength float64 `json:"strength"`
}

// SignalEvent is emitted when a signal starts travelling.
type SignalEvent struct {
	EventBase
	SignalID string   `json:"signal_id"`
	From     RegionID `json:"from"`
	To       RegionID `json:"to"`
}

// LifecycleHooks defines callbacks for brain observability.
// Hooks run synchronously inside the mutation that produced the event.
type LifecycleHooks struct {
	OnNode   func(context.Context, *NodeEvent)
	OnLink   func(context.Context, *LinkEvent)
	OnSignal func(context.Context, *SignalEvent)
	OnTick   func(context.Context, time.Duration)
}
