package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// ErrInvalidGeometry reports a display rectangle with a non-positive side.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrNoForwardProgress reports a layout pass that consumed zero characters.
	ErrNoForwardProgress = errors.New("no forward progress")
	// ErrUnknownDocument reports a position update for a document with no access record.
	ErrUnknownDocument = errors.New("unknown document")
	// ErrStorageFailure wraps every error raised by the persistence backend.
	ErrStorageFailure = errors.New("storage failure")
)
