package ports

import "orderflow/internal/core/domain/model/order"

// EventPublisher fans an event out to live subscribers. Publish is invoked
// strictly after the producing transaction has committed and must never fail
// the mutation: delivery is best-effort, implementations log and drop.
type EventPublisher interface {
	Publish(event *order.Event)
}
