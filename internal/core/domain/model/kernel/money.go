package kernel

import (
	"fmt"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrMoneyIsNotConstructed indicates that a Money value was not created via NewMoney.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("Money must be created via NewMoney")

// Money is a value object holding a monetary amount as integer cents.
// Amounts are never negative. Money is immutable: arithmetic returns new values.
type Money struct {
	cents int64

	guard guard.ConstructorGuard
}

// NewMoney creates a Money value from an amount in cents.
// Returns an error when the amount is negative.
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("cents", cents, 0, "unbounded")
	}
	return Money{
		cents: cents,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 {
	return m.cents
}

// Add returns the sum of two Money values.
func (m Money) Add(other Money) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if err := other.Validate(); err != nil {
		return Money{}, err
	}
	return NewMoney(m.cents + other.cents)
}

// Multiply returns the amount scaled by a non-negative factor.
// Used to price a quantity of identical order items.
func (m Money) Multiply(factor int64) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if factor < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("factor", factor, 0, "unbounded")
	}
	return NewMoney(m.cents * factor)
}

// IsEqual compares two Money values for equality.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// String formats the amount as a decimal string, e.g. "12.50".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}

// Validate checks if the Money value was properly constructed.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}
