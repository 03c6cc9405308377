// Package eventrepo persists the lifecycle events emitted by accepted order
// mutations. Events are written in the same transaction as the mutation that
// produced them, so the log never disagrees with the order state.
package eventrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// EventDTO represents the database structure for persisting lifecycle events.
type EventDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind      string    `gorm:"type:varchar(32)"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	ActorID   uuid.UUID `gorm:"type:uuid"`
	Payload   []byte    `gorm:"type:jsonb"`
	CreatedAt time.Time
}

// TableName specifies the database table name for event entities.
func (EventDTO) TableName() string {
	return "events"
}

func fromDomain(event *order.Event) EventDTO {
	return EventDTO{
		ID:        event.ID().Bytes(),
		Kind:      string(event.Kind()),
		OrderID:   event.OrderID().Bytes(),
		ActorID:   event.ActorID().Bytes(),
		Payload:   []byte(event.Payload()),
		CreatedAt: event.CreatedAt(),
	}
}

func toDomain(dto EventDTO) (*order.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
	if err != nil {
		return nil, err
	}

	return order.RestoreEvent(id, order.EventKind(dto.Kind), orderID, actorID, []byte(dto.Payload), dto.CreatedAt)
}
