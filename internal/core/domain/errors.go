package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Pledge lifecycle errors
var (
	ErrPledgeNotFound       = errors.New("pledge not found")
	ErrInvalidStatus        = errors.New("invalid status transition")
	ErrInsufficientPayment  = errors.New("amount received is below total due")
	ErrVerificationRequired = errors.New("ic and item verification required")
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrPriceUnavailable     = errors.New("gold price table unavailable")
	ErrDayEndNotFound       = errors.New("day-end record not found")
)
