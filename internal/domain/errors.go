package domain

import "errors"

var (
	// ErrValidation marks malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate is returned when a unique field (email, unit code) is already taken.
	ErrDuplicate = errors.New("already exists")
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrReferenced is returned when a delete is blocked by dependent records.
	ErrReferenced = errors.New("is still referenced by other records")
	// ErrInvalidReference is returned when a record points at a missing parent.
	ErrInvalidReference = errors.New("references a missing record")
	// ErrSlotUnavailable is returned when a reservation overlaps an existing one.
	ErrSlotUnavailable = errors.New("time slot not available")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated covers missing, malformed, expired and forged tokens alike.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden is returned on role or ownership mismatch.
	ErrForbidden = errors.New("forbidden")
)
