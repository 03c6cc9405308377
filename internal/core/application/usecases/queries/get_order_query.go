// Package queries contains read-side operations of the CQRS split. Query
// handlers read the database directly and return flat response models; they
// never mutate state and never go through the aggregates.
package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves a single order by its identifier.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order identifier.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the flat read model of one order.
type GetOrderQueryResponse struct {
	ID                  string     `json:"id"`
	CustomerID          string     `json:"customerId"`
	VendorID            string     `json:"vendorId"`
	CourierID           *string    `json:"courierId,omitempty"`
	PickupAddress       string     `json:"pickupAddress"`
	DeliveryAddress     string     `json:"deliveryAddress"`
	TotalCents          int64      `json:"totalCents"`
	DeliveryFeeCents    int64      `json:"deliveryFeeCents"`
	PaymentStatus       string     `json:"paymentStatus"`
	Status              string     `json:"status"`
	CreatedAt           time.Time  `json:"createdAt"`
	EstimatedDeliveryAt time.Time  `json:"estimatedDeliveryAt"`
	ActualDeliveryAt    *time.Time `json:"actualDeliveryAt,omitempty"`
}
