package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacity is returned when a segment cannot be allocated within the memory budget.
	ErrCapacity = errors.New("storage: capacity exceeded")
	// ErrClosed is returned when using a closed data access or directory.
	ErrClosed = errors.New("storage: closed")
	// ErrNotCreated is returned when growing a data access before Create or LoadExisting.
	ErrNotCreated = errors.New("storage: not created")
	// ErrAlreadyCreated is returned when Create or LoadExisting is called twice.
	ErrAlreadyCreated = errors.New("storage: already created")
	// ErrExists is returned when a directory already holds a data access of that name.
	ErrExists = errors.New("storage: data access already exists")
	// ErrCorrupt is returned when persisted data fails validation.
	ErrCorrupt = errors.New("storage: corrupt data")
	// ErrInvalidConfig is returned for unusable directory or data access settings.
	ErrInvalidConfig = errors.New("storage: invalid configuration")
)

// RecordSizeError is returned when a table was persisted with a different
// record size. It unwraps to ErrCorrupt.
type RecordSizeError struct {
	Name   string
	Stored int
	Want   int
}

func (e *RecordSizeError) Error() string {
	return fmt.Sprintf("storage: %s: record size %d, want %d", e.Name, e.Stored, e.Want)
}

func (e *RecordSizeError) Unwrap() error { return ErrCorrupt }
