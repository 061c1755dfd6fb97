package domain

import "errors"

var (
	// ErrOrderNotFound is returned when the referenced order does not exist
	ErrOrderNotFound = errors.New("order not found")

	// ErrLineNotFound is returned when no line exists for an (order, product) pair
	ErrLineNotFound = errors.New("order line not found")

	// ErrInvalidID is returned for a zero order or product identifier
	ErrInvalidID = errors.New("identifier must be a positive integer")

	// ErrPersistence is returned when the backing store rejects the atomic unit;
	// the transaction is rolled back, so the caller may safely retry
	ErrPersistence = errors.New("persistence failure")

	// ErrUnavailable is returned when the backing store cannot be reached
	ErrUnavailable = errors.New("storage unavailable")
)
