package storage

import (
	"context"

	"github.com/iudanet/offsync/internal/models"
)

// ConflictStorage defines interface for open conflict records.
// At most one record exists per entity.
type ConflictStorage interface {
	// SaveConflict stores a record, replacing any record of the same entity
	SaveConflict(ctx context.Context, record *models.ConflictRecord) error

	// GetConflict returns ErrConflictNotFound if the entity has no open conflict
	GetConflict(ctx context.Context, entityType, id string) (*models.ConflictRecord, error)

	ListConflicts(ctx context.Context) ([]*models.ConflictRecord, error)

	// DeleteConflict removes a record. Missing record is not an error.
	DeleteConflict(ctx context.Context, entityType, id string) error
}
