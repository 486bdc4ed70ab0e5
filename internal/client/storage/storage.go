package storage

import "context"

//go:generate moq -out storage_mock.go . Storage

// Storage is the complete local persistent store
type Storage interface {
	EntityStorage
	QueueStorage
	ConflictStorage
	MetadataStorage

	// EstimateSize returns the current size of the store in bytes
	EstimateSize(ctx context.Context) (int64, error)

	Close() error
}
