// internal/domain/pos/errors.go
package pos

import "errors"

// Register errors are local validation failures returned synchronously
// to the caller. None are retried internally, and every failed call
// leaves the cart and session exactly as they were.
var (
	// ErrNoActiveSession is returned when a cart mutation or settlement
	// is attempted with no open register session
	ErrNoActiveSession = errors.New("no active register session")

	// ErrEmptyCart is returned when settlement is attempted with no cart lines
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInsufficientPayment is returned when a cash tender is below the
	// total due; the cart is preserved so the cashier can correct the amount
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrInvalidQuantity is returned when an add requests a quantity of zero or less
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInvalidPaymentMethod is returned for a tender type the register does not accept
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrOrderNotFound is returned when the order id is not in the active session's log
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidOrderState is returned when a refund or void targets an
	// order that is not in completed status; the transition is one-way
	ErrInvalidOrderState = errors.New("order is not in a refundable state")
)
