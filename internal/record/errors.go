package record

import "errors"

var (
	// ErrProspectNotFound is returned when an operation references a prospect
	// id that does not exist (or was deleted).
	ErrProspectNotFound = errors.New("prospect not found")

	// ErrEmptyContent is returned when a note is empty after trimming.
	ErrEmptyContent = errors.New("note content is empty")

	// ErrEmptyAddress is returned when a prospect address is empty after
	// trimming.
	ErrEmptyAddress = errors.New("address is empty")
)
