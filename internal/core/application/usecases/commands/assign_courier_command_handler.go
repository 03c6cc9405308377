package commands

import (
	"context"

	"orderflow/internal/core/domain/services"
)

// AssignCourierCommandHandler handles courier assignment.
// Assignment is an administrator-only metadata update: it does not move the
// order through the lifecycle graph and emits no event. The aggregate itself
// enforces that assignment happens at most once and only while the order is
// ready or earlier.
type AssignCourierCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAssignCourierCommandHandler creates a handler for courier assignment.
func NewAssignCourierCommandHandler(uowFactory OrderUoWFactory) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the assignment request.
// Returns services.ErrForbidden for non-administrators.
func (h *AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if !cmd.Actor().IsAdmin() {
		return services.ErrForbidden
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.AssignCourier(cmd.CourierID()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
