package storage

import (
	"context"

	"github.com/iudanet/offsync/internal/models"
)

//go:generate moq -out storage_mock.go . Storage

// EntityStorage defines interface for entity persistence with optimistic concurrency
type EntityStorage interface {
	// CreateEntity inserts a new entity at version 1.
	// Sets Version, CreatedAt and UpdatedAt on success.
	// Returns ErrEntityExists if the entity already exists
	CreateEntity(ctx context.Context, entity *models.StoredEntity) error

	// GetEntity retrieves an entity by type and id
	// Returns ErrEntityNotFound if entity doesn't exist
	GetEntity(ctx context.Context, entityType, id string) (*models.StoredEntity, error)

	// ListEntities retrieves all entities of a type ordered by id
	// Returns empty slice if no entities found
	ListEntities(ctx context.Context, entityType string) ([]*models.StoredEntity, error)

	// UpdateEntity replaces entity data only if the stored version equals expectedVersion.
	// On success entity.Version is expectedVersion+1.
	// Returns ErrVersionConflict or ErrEntityNotFound
	UpdateEntity(ctx context.Context, entity *models.StoredEntity, expectedVersion int64) error

	// DeleteEntity removes the entity only if the stored version equals expectedVersion.
	// Returns ErrVersionConflict or ErrEntityNotFound
	DeleteEntity(ctx context.Context, entityType, id string, expectedVersion int64) error
}

// Storage объединяет хранилище сущностей и управление соединением
type Storage interface {
	EntityStorage

	// Ping checks the database connection
	Ping(ctx context.Context) error

	// Close closes the database connection
	Close() error
}
