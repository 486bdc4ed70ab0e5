package storage

import (
	"context"
	"time"
)

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// SaveLastSyncTime saves the time of the last completed sync cycle
	SaveLastSyncTime(ctx context.Context, t time.Time) error

	// GetLastSyncTime retrieves the time of the last completed sync cycle
	// Returns zero time if no sync has been performed yet
	GetLastSyncTime(ctx context.Context) (time.Time, error)

	// GetOrCreateSalt returns the persisted encryption salt, creating it on first use
	GetOrCreateSalt(ctx context.Context, size int) ([]byte, error)
}
