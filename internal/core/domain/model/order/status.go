package order

import (
	"errors"

	"orderflow/internal/pkg/errs"
)

// ErrInvalidTransition is returned when a status change does not follow the
// lifecycle graph. A request that re-submits the order's current status is
// also invalid: there is no silent no-op acceptance.
var ErrInvalidTransition = errors.New("invalid order status transition")

// Status represents the lifecycle state of an order.
// It implements a state machine with a single forward path plus cancellation:
//
//	pending -> confirmed -> preparing -> ready -> picked_up -> in_transit -> delivered
//	    └──────────┴───────────┴──────────┴──────────┴────────────┘
//	                         cancelled
//
// Cancellation is reachable from every non-terminal state. Delivered and
// Cancelled are terminal: no transition leaves them. Forward movement is
// strictly one step at a time; skipping states is not allowed.
type Status int

const (
	// statusUnknown catches uninitialized Status values.
	statusUnknown Status = iota

	// Pending is the initial status of every new order.
	Pending

	// Confirmed means the vendor accepted the order.
	Confirmed

	// Preparing means the vendor is working on the order.
	Preparing

	// Ready means the order awaits pickup by the courier.
	Ready

	// PickedUp means the courier collected the order from the vendor.
	PickedUp

	// InTransit means the courier is on the way to the customer.
	InTransit

	// Delivered is the terminal success state.
	Delivered

	// Cancelled is the terminal abort state, reachable from any non-terminal status.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Pending:   "pending",
		Confirmed: "confirmed",
		Preparing: "preparing",
		Ready:     "ready",
		PickedUp:  "picked_up",
		InTransit: "in_transit",
		Delivered: "delivered",
		Cancelled: "cancelled",
	}
}

// StatusFromString parses a wire-level status name.
// Returns an error for anything outside the defined set.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return statusUnknown, errs.NewValueIsInvalidError("status")
}

// Validate checks if the Status value is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("status")
	}
	return nil
}

// String returns the wire-level name of the status, e.g. "picked_up".
// Returns "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// Next returns the immediate forward successor of the status.
// The second return value is false for terminal states, Cancelled, and
// invalid values, which have no forward successor.
func (s Status) Next() (Status, bool) {
	switch s {
	case Pending:
		return Confirmed, true
	case Confirmed:
		return Preparing, true
	case Preparing:
		return Ready, true
	case Ready:
		return PickedUp, true
	case PickedUp:
		return InTransit, true
	case InTransit:
		return Delivered, true
	default:
		return statusUnknown, false
	}
}

// CanTransitionTo reports whether the graph permits moving from s to target.
// Permitted moves are the immediate forward successor and cancellation from
// any non-terminal state. Everything else, including re-submitting the
// current status, is rejected.
func (s Status) CanTransitionTo(target Status) bool {
	if err := s.Validate(); err != nil {
		return false
	}
	if err := target.Validate(); err != nil {
		return false
	}
	if s.IsTerminal() {
		return false
	}
	if target == Cancelled {
		return true
	}
	next, ok := s.Next()
	return ok && next == target
}
