package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/offsync/internal/models"
	"github.com/iudanet/offsync/internal/server/storage"
)

// CreateEntity inserts a new entity at version 1
func (s *Storage) CreateEntity(ctx context.Context, entity *models.StoredEntity) error {
	now := time.Now().UTC()

	query := `
		INSERT INTO entities (entity_type, entity_id, data, version, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT (entity_type, entity_id) DO NOTHING
	`

	res, err := s.db.ExecContext(ctx, query,
		entity.Type,
		entity.ID,
		string(entity.Data),
		now.UnixNano(),
		now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert entity: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrEntityExists
	}

	entity.Version = 1
	entity.CreatedAt = now
	entity.UpdatedAt = now
	return nil
}

// GetEntity retrieves an entity by type and id
func (s *Storage) GetEntity(ctx context.Context, entityType, id string) (*models.StoredEntity, error) {
	query := `
		SELECT entity_type, entity_id, data, version, created_at, updated_at
		FROM entities
		WHERE entity_type = ? AND entity_id = ?
	`

	entity, err := scanEntity(s.db.QueryRowContext(ctx, query, entityType, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}
	return entity, nil
}

// ListEntities retrieves all entities of a type ordered by id
func (s *Storage) ListEntities(ctx context.Context, entityType string) ([]*models.StoredEntity, error) {
	query := `
		SELECT entity_type, entity_id, data, version, created_at, updated_at
		FROM entities
		WHERE entity_type = ?
		ORDER BY entity_id
	`

	rows, err := s.db.QueryContext(ctx, query, entityType)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	entities := make([]*models.StoredEntity, 0)
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entities: %w", err)
	}

	return entities, nil
}

// UpdateEntity replaces entity data if the stored version equals expectedVersion
func (s *Storage) UpdateEntity(ctx context.Context, entity *models.StoredEntity, expectedVersion int64) error {
	now := time.Now().UTC()

	// Оптимистичная блокировка: обновляем только если версия не изменилась
	query := `
		UPDATE entities
		SET data = ?, version = version + 1, updated_at = ?
		WHERE entity_type = ? AND entity_id = ? AND version = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		string(entity.Data),
		now.UnixNano(),
		entity.Type,
		entity.ID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update entity: %w", err)
	}

	if err := s.checkAffected(ctx, res, entity.Type, entity.ID); err != nil {
		return err
	}

	entity.Version = expectedVersion + 1
	entity.UpdatedAt = now
	return nil
}

// DeleteEntity removes the entity if the stored version equals expectedVersion
func (s *Storage) DeleteEntity(ctx context.Context, entityType, id string, expectedVersion int64) error {
	query := `DELETE FROM entities WHERE entity_type = ? AND entity_id = ? AND version = ?`

	res, err := s.db.ExecContext(ctx, query, entityType, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}

	return s.checkAffected(ctx, res, entityType, id)
}

// checkAffected отличает отсутствующую сущность от несовпадения версии
func (s *Storage) checkAffected(ctx context.Context, res sql.Result, entityType, id string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	if _, err := s.GetEntity(ctx, entityType, id); err != nil {
		return err
	}
	return storage.ErrVersionConflict
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (*models.StoredEntity, error) {
	entity := &models.StoredEntity{}
	var data string
	var createdAt, updatedAt int64

	if err := row.Scan(
		&entity.Type,
		&entity.ID,
		&data,
		&entity.Version,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	entity.Data = []byte(data)
	entity.CreatedAt = time.Unix(0, createdAt).UTC()
	entity.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return entity, nil
}
