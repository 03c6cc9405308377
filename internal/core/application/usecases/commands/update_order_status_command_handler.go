package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// UpdateOrderStatusCommandHandler handles order status transitions.
//
// The check order is fixed: existence, then graph validity, then
// authorization. A request that is both graph-invalid and role-invalid
// answers with the graph error: the move would be impossible no matter who
// asked. The write itself is a compare-and-swap against the status the
// order had when it was read, so of two concurrent transitions exactly one
// commits and the loser surfaces order.ErrInvalidTransition, the same answer
// it would have gotten had it arrived second.
//
// On success the status-changed event is appended in the same transaction and
// published to live subscribers strictly after commit.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     services.AccessPolicy
	publisher  ports.EventPublisher
}

// NewUpdateOrderStatusCommandHandler creates a handler for status transitions.
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	policy services.AccessPolicy,
	publisher ports.EventPublisher,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		publisher:  publisher,
	}
}

// Handle processes the transition request.
// Returns a not-found error for unknown orders, services.ErrForbidden when the
// role matrix denies the actor, and order.ErrInvalidTransition when the move
// does not fit the lifecycle graph or lost a concurrent race.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
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

	from := aggregate.Status()
	if !from.CanTransitionTo(cmd.Target()) {
		return fmt.Errorf("%w: %s -> %s", order.ErrInvalidTransition, from, cmd.Target())
	}

	if err = h.policy.CanTransition(aggregate, cmd.Actor(), cmd.Target()); err != nil {
		return err
	}

	now := time.Now()
	if err = aggregate.TransitionTo(cmd.Target(), now); err != nil {
		return err
	}

	if err = orderRepo.UpdateStatusFrom(ctx, aggregate, from); err != nil {
		// The row disappeared from under the expected status: a concurrent
		// transition won. Answer as if this request had arrived second.
		if errors.Is(err, errs.ErrObjectNotFound) {
			return fmt.Errorf("%w: %s -> %s", order.ErrInvalidTransition, from, cmd.Target())
		}
		return err
	}

	event, err := order.NewStatusChangedEvent(aggregate.ID(), cmd.Actor().ID(), from, cmd.Target(), now)
	if err != nil {
		return err
	}
	if err = uow.EventRepository().Add(ctx, event); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(event)
	return nil
}
