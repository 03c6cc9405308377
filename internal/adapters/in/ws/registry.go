// Package ws is the realtime inbound adapter. It upgrades HTTP connections to
// websockets, tracks which sessions are watching which orders, and fans
// lifecycle events out to them. Delivery is best-effort: a slow or dead
// session is dropped, never the event producer.
package ws

import (
	"sync"

	"orderflow/internal/core/domain/model/kernel"
)

// Subscriber receives marshaled event envelopes. Enqueue must not block; it
// reports false when the payload could not be buffered.
type Subscriber interface {
	Enqueue(payload []byte) bool
}

// Registry is the concurrent subscription table mapping orders to the
// sessions watching them. A session may watch any number of orders and an
// order may have any number of watchers.
type Registry struct {
	mu            sync.RWMutex
	subscriptions map[kernel.UUID]map[Subscriber]struct{}
}

// NewRegistry creates an empty subscription registry.
func NewRegistry() *Registry {
	return &Registry{
		subscriptions: make(map[kernel.UUID]map[Subscriber]struct{}),
	}
}

// Subscribe registers the subscriber for the order's events. Subscribing the
// same subscriber twice is a no-op.
func (r *Registry) Subscribe(sub Subscriber, orderID kernel.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	watchers, ok := r.subscriptions[orderID]
	if !ok {
		watchers = make(map[Subscriber]struct{})
		r.subscriptions[orderID] = watchers
	}
	watchers[sub] = struct{}{}
}

// Unsubscribe removes the subscriber from one order. Unknown pairs are ignored.
func (r *Registry) Unsubscribe(sub Subscriber, orderID kernel.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	watchers, ok := r.subscriptions[orderID]
	if !ok {
		return
	}
	delete(watchers, sub)
	if len(watchers) == 0 {
		delete(r.subscriptions, orderID)
	}
}

// SubscribersOf returns a snapshot of the order's current watchers. The
// snapshot is safe to iterate while other goroutines mutate the registry.
func (r *Registry) SubscribersOf(orderID kernel.UUID) []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	watchers := r.subscriptions[orderID]
	if len(watchers) == 0 {
		return nil
	}

	snapshot := make([]Subscriber, 0, len(watchers))
	for sub := range watchers {
		snapshot = append(snapshot, sub)
	}
	return snapshot
}

// Drop removes the subscriber from every order it watches. Called
// synchronously when a session closes, so no event published afterwards can
// reach the dead session.
func (r *Registry) Drop(sub Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for orderID, watchers := range r.subscriptions {
		delete(watchers, sub)
		if len(watchers) == 0 {
			delete(r.subscriptions, orderID)
		}
	}
}

// Len returns the total number of (order, subscriber) entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, watchers := range r.subscriptions {
		total += len(watchers)
	}
	return total
}
