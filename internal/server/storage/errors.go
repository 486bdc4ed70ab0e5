package storage

import "errors"

// Common storage errors
var (
	// ErrEntityNotFound indicates that the entity does not exist
	ErrEntityNotFound = errors.New("entity not found")

	// ErrEntityExists indicates that an entity with this type and id already exists
	ErrEntityExists = errors.New("entity already exists")

	// ErrVersionConflict indicates that the stored version differs from the expected one
	ErrVersionConflict = errors.New("version conflict")
)
