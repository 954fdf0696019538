package storage

import "errors"

// Domain error taxonomy. Operations wrap one of these sentinels with
// fmt.Errorf so callers can classify with errors.Is; any failure not
// wrapping a sentinel is a storage-engine error propagated verbatim.
var (
	// ErrValidation marks malformed input, e.g. an empty required name.
	ErrValidation = errors.New("invalid input")

	// ErrConflict marks a uniqueness violation, e.g. a duplicate exercise name.
	ErrConflict = errors.New("already exists")

	// ErrNotFound marks a reference to a nonexistent record.
	ErrNotFound = errors.New("not found")
)
