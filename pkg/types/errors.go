package types

import "errors"

// Domain errors shared across components
var (
	// ErrNotFound is returned when no crystal exists for a requested ID.
	// Callers pair it with an enumeration of known IDs.
	ErrNotFound = errors.New("crystal not found")

	// ErrNoContent is returned when create receives no explicit content
	// and the context scanner yields nothing.
	ErrNoContent = errors.New("no content available")

	// ErrMalformedRecord marks a stored record that failed to parse.
	// Enumeration flags it and continues; it never aborts a listing.
	ErrMalformedRecord = errors.New("malformed crystal record")

	// ErrPathEscape is a fatal precondition failure: a resolved path
	// fell outside the configured root.
	ErrPathEscape = errors.New("path escapes storage root")

	// Record validation errors
	ErrInvalidID        = errors.New("crystal ID cannot be empty")
	ErrEmptyContent     = errors.New("crystal content cannot be empty")
	ErrInvalidTimestamp = errors.New("created_at is not a valid timestamp")
)
