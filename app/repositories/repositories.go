// Package repositories contains the MongoDB data access layer: one
// repository per collection. Repositories translate driver errors into the
// package sentinels below; the services layer turns those into user-facing
// apperr values with context.
package repositories

import "errors"

var (
	// ErrNotFound means the requested document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicate means a unique index rejected the write.
	ErrDuplicate = errors.New("duplicate document")

	// ErrInsufficientStock means a conditional stock decrement found fewer
	// units than requested. The decrement did not happen.
	ErrInsufficientStock = errors.New("insufficient stock")
)
