package eventrepo

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GormEventRepository implements EventRepository using GORM.
type GormEventRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormEventRepository creates a new GORM event repository.
func NewGormEventRepository(db *gorm.DB, tracker aggregateTracker) *GormEventRepository {
	return &GormEventRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add appends an event to the log. Events are immutable once written.
func (r *GormEventRepository) Add(ctx context.Context, event *order.Event) error {
	dto := fromDomain(event)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(event.ID(), event)
	return nil
}

// GetByOrder retrieves all events of an order, oldest first.
func (r *GormEventRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*order.Event, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EventDTO
	if err := r.db.WithContext(ctx).
		Order("created_at, id").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error; err != nil {
		return nil, err
	}

	events := make([]*order.Event, 0, len(dtos))
	for _, dto := range dtos {
		event, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}
