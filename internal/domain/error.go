package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrStoreUnavailable   = errors.New("order store unavailable")

	// Notification processing errors
	ErrMalformedNotification = errors.New("notification is missing required fields")
	ErrSignatureMismatch     = errors.New("notification signature mismatch")
	ErrSourceRejected        = errors.New("notification source not in allow-list")
	ErrAmountMismatch        = errors.New("notified amount disagrees with stored order total")
)
