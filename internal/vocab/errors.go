package vocab

import "errors"

var (
	// ErrKeyNotFound is returned when a requested key is absent from the table.
	ErrKeyNotFound = errors.New("key not found")

	// ErrDimensionMismatch is returned when a supplied vector's length
	// disagrees with the table's fixed dimensionality.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrEmptyResult is returned when no candidate remains after exclusion
	// filtering, or the table is empty. It distinguishes "no answer" from
	// a wrong answer.
	ErrEmptyResult = errors.New("no candidates remain")
)
