package session

import "errors"

var (
	// ErrNotLoaded is returned by operations that need a loaded session.
	ErrNotLoaded = errors.New("session not loaded")

	// ErrOutOfRange is returned for a selection index outside the list.
	ErrOutOfRange = errors.New("selection out of range")

	// ErrUnknownCategory is returned when selecting a category that was not
	// listed.
	ErrUnknownCategory = errors.New("unknown category")
)
