package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired = errors.New("order must contain at least one item")
)

// OrderItem is one priced line of a new order. The total of the order is
// computed from its items, never supplied by the client.
type OrderItem struct {
	name      string
	unitPrice kernel.Money
	quantity  int64
}

// NewOrderItem creates an order line with a positive quantity.
func NewOrderItem(name string, unitPrice kernel.Money, quantity int64) (OrderItem, error) {
	if name == "" {
		return OrderItem{}, errs.NewValueIsRequiredError("name")
	}
	if err := unitPrice.Validate(); err != nil {
		return OrderItem{}, err
	}
	if quantity <= 0 {
		return OrderItem{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	return OrderItem{name: name, unitPrice: unitPrice, quantity: quantity}, nil
}

// Name returns the item name.
func (i OrderItem) Name() string { return i.name }

// UnitPrice returns the price of a single unit.
func (i OrderItem) UnitPrice() kernel.Money { return i.unitPrice }

// Quantity returns how many units were ordered.
func (i OrderItem) Quantity() int64 { return i.quantity }

// Subtotal returns unit price times quantity.
func (i OrderItem) Subtotal() (kernel.Money, error) {
	return i.unitPrice.Multiply(i.quantity)
}

// CreateOrderCommand represents a request to place a new order with a vendor.
// The order starts in pending status; its total is derived from the items.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	customerID      kernel.UUID
	vendorID        kernel.UUID
	items           []OrderItem
	pickupAddress   kernel.Address
	deliveryAddress kernel.Address
	deliveryFee     kernel.Money

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// All identifiers, both addresses, the fee, and at least one item are required.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID kernel.UUID,
	vendorID kernel.UUID,
	items []OrderItem,
	pickupAddress kernel.Address,
	deliveryAddress kernel.Address,
	deliveryFee kernel.Money,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setIDs(orderID, customerID, vendorID),
		cmd.setItems(items),
		cmd.setAddresses(pickupAddress, deliveryAddress),
		cmd.setDeliveryFee(deliveryFee),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier the new order will carry.
func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// CustomerID returns the customer placing the order.
func (c CreateOrderCommand) CustomerID() kernel.UUID { return c.customerID }

// VendorID returns the vendor the order is placed with.
func (c CreateOrderCommand) VendorID() kernel.UUID { return c.vendorID }

// Items returns the order lines.
func (c CreateOrderCommand) Items() []OrderItem { return c.items }

// PickupAddress returns the vendor-side address.
func (c CreateOrderCommand) PickupAddress() kernel.Address { return c.pickupAddress }

// DeliveryAddress returns the customer-side address.
func (c CreateOrderCommand) DeliveryAddress() kernel.Address { return c.deliveryAddress }

// DeliveryFee returns the delivery fee.
func (c CreateOrderCommand) DeliveryFee() kernel.Money { return c.deliveryFee }

// Total sums the subtotals of all items.
func (c CreateOrderCommand) Total() (kernel.Money, error) {
	total, err := kernel.NewMoney(0)
	if err != nil {
		return kernel.Money{}, err
	}
	for _, item := range c.items {
		subtotal, err := item.Subtotal()
		if err != nil {
			return kernel.Money{}, err
		}
		total, err = total.Add(subtotal)
		if err != nil {
			return kernel.Money{}, err
		}
	}
	return total, nil
}

func (c *CreateOrderCommand) setIDs(orderID, customerID, vendorID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if err := customerID.Validate(); err != nil {
		return err
	}
	if err := vendorID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	c.customerID = customerID
	c.vendorID = vendorID
	return nil
}

func (c *CreateOrderCommand) setItems(items []OrderItem) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	c.items = items
	return nil
}

func (c *CreateOrderCommand) setAddresses(pickup, delivery kernel.Address) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	if err := delivery.Validate(); err != nil {
		return err
	}
	c.pickupAddress = pickup
	c.deliveryAddress = delivery
	return nil
}

func (c *CreateOrderCommand) setDeliveryFee(fee kernel.Money) error {
	if err := fee.Validate(); err != nil {
		return err
	}
	c.deliveryFee = fee
	return nil
}
