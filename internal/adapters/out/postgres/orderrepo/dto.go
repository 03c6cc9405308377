// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, handling conversion between domain entities and database rows.
package orderrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status is stored by its wire name so the compare-and-swap update and the
// read-side queries can filter on it directly.
type OrderDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID          uuid.UUID  `gorm:"type:uuid;index"`
	VendorID            uuid.UUID  `gorm:"type:uuid;index"`
	CourierID           *uuid.UUID `gorm:"type:uuid;index"`
	PickupAddress       string
	DeliveryAddress     string
	TotalCents          int64
	DeliveryFeeCents    int64
	PaymentStatus       string `gorm:"type:varchar(16)"`
	Status              string `gorm:"type:varchar(16);index"`
	CreatedAt           time.Time
	EstimatedDeliveryAt time.Time
	ActualDeliveryAt    *time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := aggregate.CourierID(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	return OrderDTO{
		ID:                  aggregate.ID().Bytes(),
		CustomerID:          aggregate.CustomerID().Bytes(),
		VendorID:            aggregate.VendorID().Bytes(),
		CourierID:           courierID,
		PickupAddress:       aggregate.PickupAddress().String(),
		DeliveryAddress:     aggregate.DeliveryAddress().String(),
		TotalCents:          aggregate.Total().Cents(),
		DeliveryFeeCents:    aggregate.DeliveryFee().Cents(),
		PaymentStatus:       aggregate.PaymentStatus().String(),
		Status:              aggregate.Status().String(),
		CreatedAt:           aggregate.CreatedAt(),
		EstimatedDeliveryAt: aggregate.EstimatedDeliveryAt(),
		ActualDeliveryAt:    aggregate.ActualDeliveryAt(),
	}
}

// toDomain converts a database row to an order domain aggregate via RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	pickup, err := kernel.NewAddress(dto.PickupAddress)
	if err != nil {
		return nil, err
	}
	delivery, err := kernel.NewAddress(dto.DeliveryAddress)
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoney(dto.TotalCents)
	if err != nil {
		return nil, err
	}
	fee, err := kernel.NewMoney(dto.DeliveryFeeCents)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.PaymentStatusFromString(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}
	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id, customerID, vendorID, courierID,
		pickup, delivery, total, fee,
		paymentStatus, status,
		dto.CreatedAt, dto.EstimatedDeliveryAt, dto.ActualDeliveryAt,
	)
}
