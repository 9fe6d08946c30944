package domain

import "errors"

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")

	ErrAccountBanned       = errors.New("account banned")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrNotEnoughBalance    = errors.New("not enough balance")
	ErrProductUnavailable  = errors.New("product is not available")
	ErrReferenceConstraint = errors.New("record is referenced by other records")
)
