package kernel

import (
	"strings"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrAddressIsNotConstructed indicates that an Address was not created via NewAddress.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError("Address must be created via NewAddress")

// Address is a value object holding a free-form postal address line used for
// pickup and delivery locations. The text must not be empty.
type Address struct {
	text string

	guard guard.ConstructorGuard
}

// NewAddress creates an Address from a non-empty text line.
// Surrounding whitespace is trimmed.
func NewAddress(text string) (Address, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Address{}, errs.NewValueIsRequiredError("text")
	}
	return Address{
		text:  text,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// String returns the address text.
func (a Address) String() string {
	return a.text
}

// IsEqual compares two addresses for equality.
func (a Address) IsEqual(other Address) bool {
	return a.text == other.text
}

// Validate checks if the Address was properly constructed.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}
