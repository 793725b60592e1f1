package history

import "errors"

var (
	// ErrHistoryNotFound indicates the project has no history entries.
	ErrHistoryNotFound = errors.New("no history found")
	// ErrInvalidVersion indicates a version index outside the project's log.
	ErrInvalidVersion = errors.New("invalid version")
	// ErrInvalidInput indicates invalid history input.
	ErrInvalidInput = errors.New("invalid history input")
)
