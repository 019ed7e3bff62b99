package ledger

import "errors"

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrAccountNotFound      = errors.New("account not found")
	ErrInvalidAmount        = errors.New("amount must be greater than 0")
	ErrInsufficientFunds    = errors.New("insufficient balance")
	ErrNoDestination        = errors.New("destination account or recipient is required")
	ErrAmbiguousDestination = errors.New("destination account and recipient are mutually exclusive")
)
