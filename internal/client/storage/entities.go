package storage

import (
	"context"

	"github.com/iudanet/offsync/internal/models"
)

// EntityStorage defines interface for the local entity cache
type EntityStorage interface {
	// PutEntity stores or replaces a cached entity
	PutEntity(ctx context.Context, entity *models.CachedEntity) error

	// GetEntity retrieves a cached entity
	// Returns ErrEntryNotFound if entity doesn't exist
	GetEntity(ctx context.Context, entityType, id string) (*models.CachedEntity, error)

	// DeleteEntity removes a cached entity. Missing entity is not an error.
	DeleteEntity(ctx context.Context, entityType, id string) error

	// ListEntitiesByType returns all cached entities of a type (including tombstones)
	ListEntitiesByType(ctx context.Context, entityType string) ([]*models.CachedEntity, error)

	// ClearEntities removes all cached entities
	ClearEntities(ctx context.Context) error
}
