package storage

import (
	"context"

	"github.com/iudanet/offsync/internal/models"
)

// QueueStorage defines interface for the persistent mutation queue
type QueueStorage interface {
	// Enqueue persists a new item and returns its store-generated id.
	// Ids are strictly increasing in insertion order.
	Enqueue(ctx context.Context, item *models.QueueItem) (uint64, error)

	// GetQueueItem retrieves a queue item
	// Returns ErrQueueItemNotFound if item doesn't exist
	GetQueueItem(ctx context.Context, id uint64) (*models.QueueItem, error)

	// ListQueue returns items ordered by id, optionally filtered by status
	ListQueue(ctx context.Context, status *models.QueueStatus) ([]*models.QueueItem, error)

	// UpdateQueueItem applies a partial update to an item
	// Returns ErrQueueItemNotFound if item doesn't exist
	UpdateQueueItem(ctx context.Context, id uint64, patch models.QueueItemPatch) error

	// RemoveQueueItem removes an item. Missing item is not an error.
	RemoveQueueItem(ctx context.Context, id uint64) error
}
