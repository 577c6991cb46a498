package store

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidTransition is returned when a status change is not allowed
	// by the workflow table.
	ErrInvalidTransition = errors.New("invalid status transition")
)
