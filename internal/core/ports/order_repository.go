// Package ports defines the contracts between the application core and the
// infrastructure adapters, enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns a not-found error when no order with that id exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateStatusFrom persists the aggregate's current state only if the
	// stored status still equals expected: a compare-and-swap write. When a
	// concurrent transition got there first the stored status no longer
	// matches, no row is updated, and a not-found error is returned so the
	// caller can surface the losing request as an invalid transition.
	UpdateStatusFrom(ctx context.Context, aggregate *order.Order, expected order.Status) error

	// GetStalePending retrieves orders still in pending status created before
	// the given cutoff. Used by the stale-order escalation job.
	GetStalePending(ctx context.Context, olderThan time.Time) ([]*order.Order, error)
}
