package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/offsync/internal/client/storage"
	"github.com/iudanet/offsync/internal/models"
)

// SaveConflict stores a conflict record keyed by "type/id"
func (s *Storage) SaveConflict(ctx context.Context, record *models.ConflictRecord) error {
	data, err := s.encodeConflict(record)
	if err != nil {
		return err
	}

	key := conflictKey(record.EntityType, record.EntityID)
	err = s.update(func(tx *bbolt.Tx) error {
		if err := s.checkQuota(ctx, tx, len(key)+len(data)); err != nil {
			return err
		}
		return tx.Bucket(bucketConflicts).Put(key, data)
	})
	if err != nil {
		return fmt.Errorf("failed to save conflict %s: %w", key, err)
	}

	return nil
}

// GetConflict retrieves the open conflict of an entity
func (s *Storage) GetConflict(ctx context.Context, entityType, id string) (*models.ConflictRecord, error) {
	var record *models.ConflictRecord

	err := s.view(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketConflicts).Get(conflictKey(entityType, id))
		if data == nil {
			return storage.ErrConflictNotFound
		}

		var err error
		record, err = s.decodeConflict(data)
		return err
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// ListConflicts returns all open conflicts ordered by entity key
func (s *Storage) ListConflicts(ctx context.Context) ([]*models.ConflictRecord, error) {
	var records []*models.ConflictRecord

	err := s.view(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketConflicts).ForEach(func(k, v []byte) error {
			record, err := s.decodeConflict(v)
			if err != nil {
				return err
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}

	return records, nil
}

// DeleteConflict removes the conflict record of an entity
func (s *Storage) DeleteConflict(ctx context.Context, entityType, id string) error {
	err := s.update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketConflicts).Delete(conflictKey(entityType, id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete conflict %s/%s: %w", entityType, id, err)
	}

	return nil
}
