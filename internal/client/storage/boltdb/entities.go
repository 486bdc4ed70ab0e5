package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/offsync/internal/client/storage"
	"github.com/iudanet/offsync/internal/models"
)

// PutEntity stores or replaces a cached entity in BoltDB.
// Сущности хранятся во вложенном bucket на каждый тип: entities/<type>/<id>.
func (s *Storage) PutEntity(ctx context.Context, entity *models.CachedEntity) error {
	data, err := s.encodeEntity(entity)
	if err != nil {
		return err
	}

	err = s.update(func(tx *bbolt.Tx) error {
		bucket, err := tx.Bucket(bucketEntities).CreateBucketIfNotExists([]byte(entity.EntityType))
		if err != nil {
			return fmt.Errorf("failed to create type bucket: %w", err)
		}

		// квота считает только прирост: перезапись тем же размером всегда проходит
		delta := len(entity.EntityID) + len(data)
		if prev := bucket.Get([]byte(entity.EntityID)); prev != nil {
			delta = len(data) - len(prev)
		}
		if err := s.checkQuota(ctx, tx, delta); err != nil {
			return err
		}

		if err := bucket.Put([]byte(entity.EntityID), data); err != nil {
			return fmt.Errorf("failed to save entity: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to put entity %s/%s: %w", entity.EntityType, entity.EntityID, err)
	}

	return nil
}

// GetEntity retrieves a cached entity
func (s *Storage) GetEntity(ctx context.Context, entityType, id string) (*models.CachedEntity, error) {
	var entity *models.CachedEntity

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketEntities).Bucket([]byte(entityType))
		if bucket == nil {
			return storage.ErrEntryNotFound
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrEntryNotFound
		}

		var err error
		entity, err = s.decodeEntity(data)
		return err
	})
	if err != nil {
		return nil, err
	}

	return entity, nil
}

// DeleteEntity removes a cached entity
func (s *Storage) DeleteEntity(ctx context.Context, entityType, id string) error {
	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketEntities).Bucket([]byte(entityType))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete entity %s/%s: %w", entityType, id, err)
	}

	return nil
}

// ListEntitiesByType returns all cached entities of a type ordered by id
func (s *Storage) ListEntitiesByType(ctx context.Context, entityType string) ([]*models.CachedEntity, error) {
	var entities []*models.CachedEntity

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketEntities).Bucket([]byte(entityType))
		if bucket == nil {
			// Нет bucket - возвращаем пустой список
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			entity, err := s.decodeEntity(v)
			if err != nil {
				return err
			}
			entities = append(entities, entity)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list entities of type %s: %w", entityType, err)
	}

	return entities, nil
}

// ClearEntities removes all cached entities
func (s *Storage) ClearEntities(ctx context.Context) error {
	err := s.update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketEntities); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketEntities)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear entities: %w", err)
	}

	return nil
}
