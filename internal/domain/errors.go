package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidOwner      = errors.New("invalid owner")
	ErrInvalidBalance    = errors.New("invalid balance")

	// Movement errors
	ErrSameAccount   = errors.New("cannot transfer to same account")
	ErrInvalidAmount = errors.New("invalid amount")

	// Request errors
	ErrMalformedRequest = errors.New("malformed request")
)
