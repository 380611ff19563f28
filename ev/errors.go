package ev

import "errors"

var (
	// ErrInvalidLayout is returned for malformed or conflicting encoded value definitions.
	ErrInvalidLayout = errors.New("ev: invalid layout")
	// ErrValueOutOfRange is returned when a value cannot be represented in its bits.
	ErrValueOutOfRange = errors.New("ev: value out of range")
	// ErrNotInitialized is returned when a value is used before a Manager assigned its slot.
	ErrNotInitialized = errors.New("ev: encoded value not part of a manager")
	// ErrUnknownValue is returned by Manager lookups for unregistered names.
	ErrUnknownValue = errors.New("ev: unknown encoded value")
)
