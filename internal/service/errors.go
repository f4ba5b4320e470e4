package service

import "errors"

var (
	ErrTableNotFound    = errors.New("table not found")
	ErrTableOccupied    = errors.New("table is already occupied")
	ErrTableNotOccupied = errors.New("table is not occupied")

	ErrBookingNotFound      = errors.New("booking not found")
	ErrOrderNotFound        = errors.New("no order for this table")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrInvalidTransition rejects any move outside the booking/order
	// lifecycle. The entity is left untouched.
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrInvalidGuests       = errors.New("guest count must be at least 1")
	ErrDepositTooLow       = errors.New("deposit amount is below the minimum")
	ErrDepositExceedsTotal = errors.New("deposit amount exceeds booking total")
	ErrMenuItemUnavailable = errors.New("menu item not found or unavailable")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrEmptyItems          = errors.New("at least one item is required")

	// ErrDepositNotConfirmed means the referenced payment has not reached
	// the completed state; the booking stays pending.
	ErrDepositNotConfirmed = errors.New("deposit transaction is not completed")
)
