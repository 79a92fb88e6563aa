package pipeline

import "errors"

var (
	// ErrNotFound: the key does not resolve to a row, whether it never
	// existed or vanished between the read and the write.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateKey: a uniqueness constraint rejected the row.
	ErrDuplicateKey = errors.New("entity with this key already exists")

	// ErrInvalidPayload: the asset field cannot be stored as given.
	ErrInvalidPayload = errors.New("invalid asset payload")

	// ErrValidation wraps field validation failures.
	ErrValidation = errors.New("validation failed")
)
