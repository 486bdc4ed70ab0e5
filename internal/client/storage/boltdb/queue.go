package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/offsync/internal/client/storage"
	"github.com/iudanet/offsync/internal/models"
)

// Enqueue persists a new queue item. ID выдается через NextSequence bucket'а,
// поэтому порядок ключей совпадает с порядком вставки.
func (s *Storage) Enqueue(ctx context.Context, item *models.QueueItem) (uint64, error) {
	var id uint64

	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate queue id: %w", err)
		}

		stored := item.Clone()
		stored.ID = seq

		data, err := s.encodeQueueItem(stored)
		if err != nil {
			return err
		}
		if err := s.checkQuota(ctx, tx, len(data)+8); err != nil {
			return err
		}

		if err := bucket.Put(itob(seq), data); err != nil {
			return fmt.Errorf("failed to save queue item: %w", err)
		}

		id = seq
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue %s %s/%s: %w", item.Operation, item.EntityType, item.EntityID, err)
	}

	item.ID = id
	return id, nil
}

// GetQueueItem retrieves a queue item by id
func (s *Storage) GetQueueItem(ctx context.Context, id uint64) (*models.QueueItem, error) {
	var item *models.QueueItem

	err := s.view(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketQueue).Get(itob(id))
		if data == nil {
			return storage.ErrQueueItemNotFound
		}

		var err error
		item, err = s.decodeQueueItem(data)
		return err
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// ListQueue returns queue items in insertion order, optionally filtered by status
func (s *Storage) ListQueue(ctx context.Context, status *models.QueueStatus) ([]*models.QueueItem, error) {
	var items []*models.QueueItem

	err := s.view(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketQueue).ForEach(func(k, v []byte) error {
			item, err := s.decodeQueueItem(v)
			if err != nil {
				return err
			}
			if status != nil && item.Status != *status {
				return nil
			}
			items = append(items, item)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}

	return items, nil
}

// UpdateQueueItem applies patch to a queue item in a single transaction
func (s *Storage) UpdateQueueItem(ctx context.Context, id uint64, patch models.QueueItemPatch) error {
	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)

		data := bucket.Get(itob(id))
		if data == nil {
			return storage.ErrQueueItemNotFound
		}

		item, err := s.decodeQueueItem(data)
		if err != nil {
			return err
		}
		patch.Apply(item)

		updated, err := s.encodeQueueItem(item)
		if err != nil {
			return err
		}
		if err := s.checkQuota(ctx, tx, len(updated)-len(data)); err != nil {
			return err
		}

		return bucket.Put(itob(id), updated)
	})
	if err != nil {
		return fmt.Errorf("failed to update queue item %d: %w", id, err)
	}

	return nil
}

// RemoveQueueItem removes a queue item. Удаление отсутствующего элемента не ошибка.
func (s *Storage) RemoveQueueItem(ctx context.Context, id uint64) error {
	err := s.update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketQueue).Delete(itob(id))
	})
	if err != nil {
		return fmt.Errorf("failed to remove queue item %d: %w", id, err)
	}

	return nil
}
