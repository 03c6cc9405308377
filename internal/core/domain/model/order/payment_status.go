package order

import "orderflow/internal/pkg/errs"

// PaymentStatus is a data attribute recorded on the order. Payment processing
// itself happens outside this subsystem.
type PaymentStatus int

const (
	paymentUnknown PaymentStatus = iota
	PaymentPending
	PaymentPaid
	PaymentRefunded
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentPending:  "pending",
		PaymentPaid:     "paid",
		PaymentRefunded: "refunded",
	}
}

// PaymentStatusFromString parses a wire-level payment status name.
func PaymentStatusFromString(s string) (PaymentStatus, error) {
	for status, name := range getPaymentStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return paymentUnknown, errs.NewValueIsInvalidError("payment status")
}

// Validate checks if the PaymentStatus is one of the defined values.
func (s PaymentStatus) Validate() error {
	if _, ok := getPaymentStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("payment status")
	}
	return nil
}

// String returns the wire-level name of the payment status.
func (s PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
