package types

import "errors"

var (
	ErrUnbalancedEntry     = errors.New("entry debits and credits are not equal")
	ErrInvalidAccount      = errors.New("entry line references an unknown account")
	ErrEmptyEntry          = errors.New("entry has no lines")
	ErrInvalidAmount       = errors.New("amount must be positive with at most two fraction digits")
	ErrAccountNotFound     = errors.New("account not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrInsufficientStock   = errors.New("insufficient stock on hand")
	ErrEntryNotFound       = errors.New("journal entry not found")
	ErrAlreadyCancelled    = errors.New("journal entry already cancelled")
	ErrConcurrencyConflict = errors.New("product cost state changed concurrently")
)
