package api

import (
	"context"
	"encoding/json"
)

//go:generate moq -out remote_mock.go . Remote

// Result подтвержденное сервером состояние сущности
type Result struct {
	ID      string
	Data    json.RawMessage
	Version int64
}

// Remote - граница с удаленным источником истины.
//
// Update и Delete принимают ожидаемую версию. Ошибки классифицируются типами:
// *VersionConflictError, ErrValidation (*ValidationError), ErrNotFound;
// все остальное считается транспортной ошибкой.
type Remote interface {
	Create(ctx context.Context, entityType, id string, payload json.RawMessage) (*Result, error)
	Update(ctx context.Context, entityType, id string, payload json.RawMessage, expectedVersion int64) (*Result, error)
	Delete(ctx context.Context, entityType, id string, expectedVersion int64) error
	Get(ctx context.Context, entityType, id string) (*Result, error)
	List(ctx context.Context, entityType string) ([]Result, error)
}
