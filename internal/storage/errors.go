package storage

import "errors"

var (
	// ErrNotFound is returned when a document does not exist (or is
	// soft-deleted, for lookups that only see live documents).
	ErrNotFound = errors.New("storage: not found")

	// ErrDuplicateKey is returned when an insert or update violates a unique
	// index. For barcodeValue the index is the final arbiter of uniqueness;
	// callers treat this the same as a failed availability check.
	ErrDuplicateKey = errors.New("storage: duplicate key")
)
