package payment

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount marks a monetary value that is non-finite, negative or
	// fractional where whole currency units are required.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrPlanNotFound marks an unresolvable plan reference.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrPaymentNotFound marks a missing payment record.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrDuplicateOrder marks an order id collision at creation time. The
	// caller must re-invoke checkout; the service never retries with a fresh
	// id on its own.
	ErrDuplicateOrder = errors.New("order id already exists")
)

// GatewayError wraps a failed outbound call to the payment gateway. The
// gateway's own status message is kept when it returned one.
type GatewayError struct {
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway: %s", e.Message)
	}
	return fmt.Sprintf("gateway: %v", e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
