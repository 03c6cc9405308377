package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// EventRepository defines the persistence contract for lifecycle events.
// Events are appended in the same transaction as the mutation that produced
// them, so the durable history and the aggregate state never diverge.
type EventRepository interface {
	// Add persists a new event.
	Add(ctx context.Context, event *order.Event) error

	// GetByOrder retrieves all events of an order ordered by creation time.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*order.Event, error)
}
