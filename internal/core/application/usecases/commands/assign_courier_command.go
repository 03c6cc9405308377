package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand constructor",
)

// AssignCourierCommand represents an administrator's request to assign a
// courier to an order.
type AssignCourierCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID
	actor     actor.Actor

	guard guard.ConstructorGuard
}

// NewAssignCourierCommand creates a courier assignment request.
func NewAssignCourierCommand(orderID, courierID kernel.UUID, a actor.Actor) (AssignCourierCommand, error) {
	cmd := AssignCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		courierID.Validate(),
		a.Validate(),
	); err != nil {
		return AssignCourierCommand{}, err
	}

	cmd.orderID = orderID
	cmd.courierID = courierID
	cmd.actor = a
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignCourierCommand) Validate() error {
	return c.guard.Validate(ErrAssignCourierCommandIsNotConstructed)
}

// OrderID returns the order to assign.
func (c AssignCourierCommand) OrderID() kernel.UUID { return c.orderID }

// CourierID returns the courier being assigned.
func (c AssignCourierCommand) CourierID() kernel.UUID { return c.courierID }

// Actor returns the account requesting the assignment.
func (c AssignCourierCommand) Actor() actor.Actor { return c.actor }
