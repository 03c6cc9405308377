package services

import (
	"errors"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// ErrForbidden is returned when the acting account is not allowed to perform
// the requested operation on the order. Role checks and identity checks both
// collapse into this single error so callers cannot distinguish "wrong role"
// from "right role, wrong order".
var ErrForbidden = errors.New("actor is not allowed to perform this action on the order")

// AccessPolicy is the domain service holding the complete role matrix for
// order mutations and chat. Keeping the matrix in one place means the HTTP
// layer, the realtime layer, and the background jobs all authorize identically.
//
// Rules, checked in precedence order:
//  1. administrators may drive any transition and send on any order
//  2. the order's vendor may drive confirmed, preparing, ready
//  3. the order's assigned courier may drive picked_up, in_transit, delivered
//  4. the order's customer may only cancel, and only while the order is
//     pending or confirmed
//  5. everything else is Forbidden
//
// The policy decides WHO may request a move; whether the move fits the
// lifecycle graph stays with the Order aggregate. Both checks must pass.
type AccessPolicy struct{}

// NewAccessPolicy creates a new AccessPolicy instance.
func NewAccessPolicy() AccessPolicy {
	return AccessPolicy{}
}

var vendorTargets = map[order.Status]bool{
	order.Confirmed: true,
	order.Preparing: true,
	order.Ready:     true,
}

var courierTargets = map[order.Status]bool{
	order.PickedUp:  true,
	order.InTransit: true,
	order.Delivered: true,
}

// CanTransition reports whether the actor may request moving the order to the
// target status. Returns ErrForbidden when the role matrix denies the move.
func (p AccessPolicy) CanTransition(o *order.Order, a actor.Actor, target order.Status) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if err := target.Validate(); err != nil {
		return err
	}

	switch a.Role() {
	case actor.RoleAdmin:
		return nil
	case actor.RoleVendor:
		if a.ID().IsEqual(o.VendorID()) && vendorTargets[target] {
			return nil
		}
	case actor.RoleCourier:
		if o.CourierID() != nil && a.ID().IsEqual(*o.CourierID()) && courierTargets[target] {
			return nil
		}
	case actor.RoleCustomer:
		if a.ID().IsEqual(o.CustomerID()) && target == order.Cancelled &&
			(o.Status() == order.Pending || o.Status() == order.Confirmed) {
			return nil
		}
	}

	return ErrForbidden
}

// CanSend reports whether the actor may send a chat message on the order.
// Only participants (and administrators) may send.
func (p AccessPolicy) CanSend(o *order.Order, a actor.Actor) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}

	if p.IsParticipant(o, a) {
		return nil
	}
	return ErrForbidden
}

// ReceiverOf derives the recipient of a chat message sent by the actor.
// The receiver is never supplied by the client:
//   - customer messages go to the courier once one is assigned and has picked
//     the order up, otherwise to the vendor
//   - vendor and courier messages go to the customer
//   - administrator messages go to the customer
func (p AccessPolicy) ReceiverOf(o *order.Order, a actor.Actor) (kernel.UUID, error) {
	if err := p.CanSend(o, a); err != nil {
		return kernel.UUID{}, err
	}

	switch a.Role() {
	case actor.RoleCustomer:
		if o.CourierID() != nil && inDeliveryPhase(o.Status()) {
			return *o.CourierID(), nil
		}
		return o.VendorID(), nil
	case actor.RoleVendor, actor.RoleCourier, actor.RoleAdmin:
		return o.CustomerID(), nil
	default:
		return kernel.UUID{}, ErrForbidden
	}
}

// IsParticipant reports whether the actor belongs to the order's conversation:
// its customer, its vendor, its assigned courier, or any administrator.
// The realtime subscribe path uses this to gate join requests.
func (p AccessPolicy) IsParticipant(o *order.Order, a actor.Actor) bool {
	if o.Validate() != nil || a.Validate() != nil {
		return false
	}

	switch a.Role() {
	case actor.RoleAdmin:
		return true
	case actor.RoleCustomer:
		return a.ID().IsEqual(o.CustomerID())
	case actor.RoleVendor:
		return a.ID().IsEqual(o.VendorID())
	case actor.RoleCourier:
		return o.CourierID() != nil && a.ID().IsEqual(*o.CourierID())
	default:
		return false
	}
}

func inDeliveryPhase(s order.Status) bool {
	return s == order.PickedUp || s == order.InTransit || s == order.Delivered
}
