package domain

import "errors"

// Expected business outcomes. Callers branch on these with errors.Is;
// anything else is a storage failure and rolls back the enclosing
// transaction.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrUnauthorized      = errors.New("unauthorized")
)
