package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a uniqueness constraint is violated.
	ErrDuplicate = errors.New("persistence: duplicate")
	// ErrConstraintViolation is returned when a check constraint rejects a write.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrForeignKeyViolation is returned when a referenced record is missing.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
	// ErrStaleState is returned when a guarded status transition finds the
	// record no longer in the expected state.
	ErrStaleState = errors.New("persistence: stale state")
	// ErrConflict is returned when an approval would produce a second
	// approved reservation for the same room, slot, and date.
	ErrConflict = errors.New("persistence: conflict")
)
