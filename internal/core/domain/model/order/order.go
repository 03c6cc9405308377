package order

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrCourierAlreadyAssigned is returned when assignment is attempted on an
	// order that already has a courier. Assignment is immutable once set.
	ErrCourierAlreadyAssigned = errors.New("courier is already assigned to the order")
)

// Order is the aggregate root of the order lifecycle. It links the three
// parties of a delivery (customer, vendor, optionally a courier) and moves
// through the status graph one step at a time.
//
// Invariants:
//   - courierID stays unset until an administrator assigns one, and never
//     changes afterwards
//   - assignment is only possible while the status is Ready or earlier
//   - status changes follow Status.CanTransitionTo; entering Delivered stamps
//     the actual delivery time
//
// Authorization for who may drive which transition lives in the domain
// services layer, not here: the aggregate enforces the graph, the policy
// enforces the roles.
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID
	vendorID   kernel.UUID
	courierID  *kernel.UUID

	pickupAddress   kernel.Address
	deliveryAddress kernel.Address

	total       kernel.Money
	deliveryFee kernel.Money

	paymentStatus PaymentStatus
	status        Status

	createdAt           time.Time
	estimatedDeliveryAt time.Time
	actualDeliveryAt    *time.Time

	isConstructed bool
}

// NewOrder creates a new Order in Pending status with payment pending.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	vendorID kernel.UUID,
	pickupAddress kernel.Address,
	deliveryAddress kernel.Address,
	total kernel.Money,
	deliveryFee kernel.Money,
	createdAt time.Time,
	estimatedDeliveryAt time.Time,
) (*Order, error) {
	order := &Order{
		status:              Pending,
		paymentStatus:       PaymentPending,
		createdAt:           createdAt,
		estimatedDeliveryAt: estimatedDeliveryAt,
		isConstructed:       true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setParties(customerID, vendorID),
		order.setAddresses(pickupAddress, deliveryAddress),
		order.setAmounts(total, deliveryFee),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder rehydrates an Order from persistence without re-running the
// creation rules. Status and payment status must already be valid.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	vendorID kernel.UUID,
	courierID *kernel.UUID,
	pickupAddress kernel.Address,
	deliveryAddress kernel.Address,
	total kernel.Money,
	deliveryFee kernel.Money,
	paymentStatus PaymentStatus,
	status Status,
	createdAt time.Time,
	estimatedDeliveryAt time.Time,
	actualDeliveryAt *time.Time,
) (*Order, error) {
	order := &Order{
		paymentStatus:       paymentStatus,
		status:              status,
		createdAt:           createdAt,
		estimatedDeliveryAt: estimatedDeliveryAt,
		actualDeliveryAt:    actualDeliveryAt,
		isConstructed:       true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setParties(customerID, vendorID),
		order.setAddresses(pickupAddress, deliveryAddress),
		order.setAmounts(total, deliveryFee),
		status.Validate(),
		paymentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return nil, err
		}
		id := *courierID
		order.courierID = &id
	}

	return order, nil
}

// Validate ensures the Order was constructed through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the identifier of the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// VendorID returns the identifier of the vendor preparing the order.
func (o *Order) VendorID() kernel.UUID {
	return o.vendorID
}

// CourierID returns the assigned courier's identifier, or nil before assignment.
func (o *Order) CourierID() *kernel.UUID {
	return o.courierID
}

// PickupAddress returns where the courier collects the order.
func (o *Order) PickupAddress() kernel.Address {
	return o.pickupAddress
}

// DeliveryAddress returns where the order is delivered.
func (o *Order) DeliveryAddress() kernel.Address {
	return o.deliveryAddress
}

// Total returns the order total.
func (o *Order) Total() kernel.Money {
	return o.total
}

// DeliveryFee returns the delivery fee.
func (o *Order) DeliveryFee() kernel.Money {
	return o.deliveryFee
}

// PaymentStatus returns the recorded payment status.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// EstimatedDeliveryAt returns the promised delivery time.
func (o *Order) EstimatedDeliveryAt() time.Time {
	return o.estimatedDeliveryAt
}

// ActualDeliveryAt returns when the order was delivered, or nil before that.
func (o *Order) ActualDeliveryAt() *time.Time {
	return o.actualDeliveryAt
}

// TransitionTo moves the order to the target status.
// The move must be permitted by the lifecycle graph; otherwise
// ErrInvalidTransition is returned and the order is unchanged.
// Entering Delivered stamps the actual delivery time with now.
func (o *Order) TransitionTo(target Status, now time.Time) error {
	if err := target.Validate(); err != nil {
		return err
	}

	if !o.status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.status, target)
	}

	o.status = target
	if target == Delivered {
		deliveredAt := now
		o.actualDeliveryAt = &deliveredAt
	}
	return nil
}

// AssignCourier records the courier responsible for delivery.
// Allowed only while the order is Ready or earlier and no courier is set;
// the assignment is immutable afterwards.
func (o *Order) AssignCourier(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if o.courierID != nil {
		return ErrCourierAlreadyAssigned
	}

	switch o.status {
	case Pending, Confirmed, Preparing, Ready:
		o.courierID = &courierID
		return nil
	default:
		return fmt.Errorf("%w: cannot assign courier in status %s", ErrInvalidTransition, o.status)
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setParties(customerID, vendorID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerID", err)
	}
	if err := vendorID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("vendorID", err)
	}
	o.customerID = customerID
	o.vendorID = vendorID
	return nil
}

func (o *Order) setAddresses(pickup, delivery kernel.Address) error {
	if err := pickup.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("pickupAddress", err)
	}
	if err := delivery.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("deliveryAddress", err)
	}
	o.pickupAddress = pickup
	o.deliveryAddress = delivery
	return nil
}

func (o *Order) setAmounts(total, deliveryFee kernel.Money) error {
	if err := total.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("total", err)
	}
	if err := deliveryFee.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("deliveryFee", err)
	}
	o.total = total
	o.deliveryFee = deliveryFee
	return nil
}
