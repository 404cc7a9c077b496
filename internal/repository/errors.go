package repository

import "errors"

var (
	// ErrActiveSwapExists is returned when an insert or delete collides with
	// the single-active-swap-per-item constraint.
	ErrActiveSwapExists = errors.New("active swap already exists for item")

	// ErrInsufficientPoints is returned when a ledger debit would drive a
	// balance negative.
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrEmailTaken is returned when a user insert collides with the unique
	// email constraint.
	ErrEmailTaken = errors.New("email already registered")
)
