package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles the business logic for placing orders.
// New orders start in pending status with the total computed from the items
// and an estimated delivery time derived from the configured window.
type CreateOrderCommandHandler struct {
	uowFactory     OrderUoWFactory
	deliveryWindow time.Duration
}

// NewCreateOrderCommandHandler creates a handler for order placement.
// deliveryWindow is the promised time between placement and delivery.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, deliveryWindow time.Duration) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:     uowFactory,
		deliveryWindow: deliveryWindow,
	}
}

// Handle processes the order placement command.
// Uses a transaction to ensure the order is persisted or rolled back whole.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	total, err := cmd.Total()
	if err != nil {
		return err
	}

	now := time.Now()
	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		cmd.CustomerID(),
		cmd.VendorID(),
		cmd.PickupAddress(),
		cmd.DeliveryAddress(),
		total,
		cmd.DeliveryFee(),
		now,
		now.Add(h.deliveryWindow),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
