package domain

import "errors"

var (
	// ErrProductNotFound is returned when the referenced product does not exist
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock is returned when the requested amount exceeds the available quantity
	ErrInsufficientStock = errors.New("not enough product in stock")

	// ErrInvalidAmount is returned for a zero or negative requested amount
	ErrInvalidAmount = errors.New("amount must be a positive integer")
)
