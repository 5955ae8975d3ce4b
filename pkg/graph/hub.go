package graph

import (
	"sync"

	"github.com/aretw0/cortex/pkg/domain"
)

// Observer receives snapshots of the brain.
// OnSnapshot runs synchronously inside the mutation that produced the snapshot.
// It may read the brain (Snapshot, Describe) but must not mutate it or subscribe.
type Observer interface {
	OnSnapshot(domain.Snapshot)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(domain.Snapshot)

// OnSnapshot calls f(s).
func (f ObserverFunc) OnSnapshot(s domain.Snapshot) { f(s) }

type subscriber struct {
	id       uint64
	observer Observer
}

// Hub publishes snapshots to observers in subscription order.
type Hub struct {
	mu     sync.Mutex
	subs   []subscriber
	nextID uint64
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	hub  *Hub
	id   uint64
	once sync.Once
}

// Unsubscribe removes the observer. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.remove(s.id)
	})
}

// Subscribe registers o and immediately delivers current to it,
// so late subscribers are never stale.
func (h *Hub) Subscribe(o Observer, current domain.Snapshot) *Subscription {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscriber{id: id, observer: o})
	h.mu.Unlock()

	o.OnSnapshot(current.Clone())
	return &Subscription{hub: h, id: id}
}

// Publish delivers s to every live observer, in subscription order.
// Each observer gets its own copy.
func (h *Hub) Publish(s domain.Snapshot) {
	h.mu.Lock()
	subs := make([]subscriber, len(h.subs))
	copy(subs, h.subs)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.observer.OnSnapshot(s.Clone())
	}
}

// Len returns the number of live observers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, sub := range h.subs {
		if sub.id == id {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			return
		}
	}
}
