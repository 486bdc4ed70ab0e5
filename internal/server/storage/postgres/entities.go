package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iudanet/offsync/internal/models"
	"github.com/iudanet/offsync/internal/server/storage"
)

const selectColumns = `entity_type, entity_id, data, version, created_at, updated_at`

// CreateEntity inserts a new entity at version 1
func (s *Storage) CreateEntity(ctx context.Context, entity *models.StoredEntity) error {
	query := `INSERT INTO entities (entity_type, entity_id, data, version)
	          VALUES ($1, $2, $3, 1)
	          ON CONFLICT (entity_type, entity_id) DO NOTHING
	          RETURNING version, created_at, updated_at`

	err := s.pool.QueryRow(ctx, query, entity.Type, entity.ID, []byte(entity.Data)).
		Scan(&entity.Version, &entity.CreatedAt, &entity.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrEntityExists
	}
	if err != nil {
		return fmt.Errorf("failed to create entity: %w", err)
	}
	return nil
}

// GetEntity retrieves an entity by type and id
func (s *Storage) GetEntity(ctx context.Context, entityType, id string) (*models.StoredEntity, error) {
	query := `SELECT ` + selectColumns + `
	          FROM entities
	          WHERE entity_type = $1 AND entity_id = $2`

	entity, err := scanEntity(s.pool.QueryRow(ctx, query, entityType, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrEntityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}
	return entity, nil
}

// ListEntities retrieves all entities of a type ordered by id
func (s *Storage) ListEntities(ctx context.Context, entityType string) ([]*models.StoredEntity, error) {
	query := `SELECT ` + selectColumns + `
	          FROM entities
	          WHERE entity_type = $1
	          ORDER BY entity_id ASC`

	rows, err := s.pool.Query(ctx, query, entityType)
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
	// WHERE включает проверку версии: обновление проходит, только если версия не изменилась
	query := `UPDATE entities
	          SET data = $1,
	              version = version + 1,
	              updated_at = NOW()
	          WHERE entity_type = $2 AND entity_id = $3 AND version = $4
	          RETURNING version, updated_at`

	err := s.pool.QueryRow(ctx, query, []byte(entity.Data), entity.Type, entity.ID, expectedVersion).
		Scan(&entity.Version, &entity.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.missOrConflict(ctx, entity.Type, entity.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update entity: %w", err)
	}
	return nil
}

// DeleteEntity removes the entity if the stored version equals expectedVersion
func (s *Storage) DeleteEntity(ctx context.Context, entityType, id string, expectedVersion int64) error {
	query := `DELETE FROM entities WHERE entity_type = $1 AND entity_id = $2 AND version = $3`

	tag, err := s.pool.Exec(ctx, query, entityType, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.missOrConflict(ctx, entityType, id)
	}
	return nil
}

func (s *Storage) missOrConflict(ctx context.Context, entityType, id string) error {
	if _, err := s.GetEntity(ctx, entityType, id); err != nil {
		return err
	}
	return storage.ErrVersionConflict
}

func scanEntity(row pgx.Row) (*models.StoredEntity, error) {
	entity := &models.StoredEntity{}
	var data []byte
	err := row.Scan(
		&entity.Type,
		&entity.ID,
		&data,
		&entity.Version,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	entity.Data = data
	return entity, nil
}
