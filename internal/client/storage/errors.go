package storage

import "errors"

// Common client storage errors
var (
	// ErrEntryNotFound indicates that cached entity was not found
	ErrEntryNotFound = errors.New("cached entity not found")

	// ErrQueueItemNotFound indicates that queue item was not found
	ErrQueueItemNotFound = errors.New("queue item not found")

	// ErrConflictNotFound indicates that no open conflict exists for the entity
	ErrConflictNotFound = errors.New("conflict not found")

	// ErrStorageExhausted indicates that the write would exceed the cache quota
	// or the device is out of space. Nothing was written.
	ErrStorageExhausted = errors.New("storage exhausted")

	// ErrCacheLocked indicates that the cache holds encrypted values and no key was provided
	ErrCacheLocked = errors.New("cache is encrypted, passphrase required")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
