package apperrors

import "errors"

// Sentinel errors shared across services. Services wrap these with
// fmt.Errorf("...: %w", ...) so callers can classify failures with
// errors.Is while still seeing the specific message.
var (
	// ErrValidation covers malformed input, e.g. an order with no items.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced order, product or user
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPaymentNotVerified is returned when the payment gateway rejects
	// or cannot confirm a transaction.
	ErrPaymentNotVerified = errors.New("payment not verified")

	// ErrTransactionReused is returned when a gateway transaction id has
	// already settled another order.
	ErrTransactionReused = errors.New("transaction already used")

	// ErrAmountMismatch is returned when the amount asserted by the
	// gateway capture differs from the stored order total.
	ErrAmountMismatch = errors.New("paid amount does not match order total")

	// ErrConflict is returned for redundant state transitions, such as
	// paying an already-paid order.
	ErrConflict = errors.New("conflicting state transition")
)
