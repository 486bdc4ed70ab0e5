// Package storagetest holds the behavioral test suite shared by all server
// storage backends.
package storagetest

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/offsync/internal/models"
	"github.com/iudanet/offsync/internal/server/storage"
)

// NewEntity builds an entity for tests
func NewEntity(entityType, id, data string) *models.StoredEntity {
	return &models.StoredEntity{Type: entityType, ID: id, Data: json.RawMessage(data)}
}

// Run прогоняет общий набор тестов на хранилище, созданном setup.
// setup должен возвращать пустое хранилище.
func Run(t *testing.T, setup func(t *testing.T) storage.Storage) {
	t.Run("CreateAndGet", func(t *testing.T) { testCreateAndGet(t, setup(t)) })
	t.Run("CreateExisting", func(t *testing.T) { testCreateExisting(t, setup(t)) })
	t.Run("List", func(t *testing.T) { testList(t, setup(t)) })
	t.Run("Update", func(t *testing.T) { testUpdate(t, setup(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, setup(t)) })
	t.Run("ConcurrentUpdates", func(t *testing.T) { testConcurrentUpdates(t, setup(t)) })
}

func testCreateAndGet(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	e := NewEntity("todo", "1", `{"title":"buy milk"}`)
	require.NoError(t, s.CreateEntity(ctx, e))
	assert.Equal(t, int64(1), e.Version)
	assert.False(t, e.CreatedAt.IsZero())

	got, err := s.GetEntity(ctx, "todo", "1")
	require.NoError(t, err)
	assert.Equal(t, "todo", got.Type)
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, int64(1), got.Version)
	assert.JSONEq(t, `{"title":"buy milk"}`, string(got.Data))

	_, err = s.GetEntity(ctx, "todo", "2")
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)

	// Тот же id в другом типе - другая сущность
	_, err = s.GetEntity(ctx, "note", "1")
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)
}

func testCreateExisting(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	require.NoError(t, s.CreateEntity(ctx, NewEntity("todo", "1", `{"n":1}`)))
	err := s.CreateEntity(ctx, NewEntity("todo", "1", `{"n":2}`))
	assert.ErrorIs(t, err, storage.ErrEntityExists)

	got, err := s.GetEntity(ctx, "todo", "1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(got.Data))
}

func testList(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	list, err := s.ListEntities(ctx, "todo")
	require.NoError(t, err)
	assert.Empty(t, list)

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, s.CreateEntity(ctx, NewEntity("todo", id, `{}`)))
	}
	require.NoError(t, s.CreateEntity(ctx, NewEntity("note", "x", `{}`)))

	list, err = s.ListEntities(ctx, "todo")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, "c", list[2].ID)
}

func testUpdate(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	require.NoError(t, s.CreateEntity(ctx, NewEntity("counter", "c1", `{"value":0}`)))

	tests := []struct {
		wantErr  error
		name     string
		id       string
		data     string
		expected int64
		wantVer  int64
	}{
		{name: "matching version", id: "c1", data: `{"value":5}`, expected: 1, wantVer: 2},
		{name: "stale version", id: "c1", data: `{"value":7}`, expected: 1, wantErr: storage.ErrVersionConflict},
		{name: "next version", id: "c1", data: `{"value":9}`, expected: 2, wantVer: 3},
		{name: "missing entity", id: "c2", data: `{}`, expected: 1, wantErr: storage.ErrEntityNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEntity("counter", tt.id, tt.data)
			err := s.UpdateEntity(ctx, e, tt.expected)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVer, e.Version)

			got, err := s.GetEntity(ctx, "counter", tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantVer, got.Version)
			assert.JSONEq(t, tt.data, string(got.Data))
		})
	}
}

func testDelete(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	require.NoError(t, s.CreateEntity(ctx, NewEntity("todo", "1", `{}`)))

	assert.ErrorIs(t, s.DeleteEntity(ctx, "todo", "1", 5), storage.ErrVersionConflict)
	assert.ErrorIs(t, s.DeleteEntity(ctx, "todo", "2", 1), storage.ErrEntityNotFound)

	require.NoError(t, s.DeleteEntity(ctx, "todo", "1", 1))
	_, err := s.GetEntity(ctx, "todo", "1")
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)

	// После удаления id можно использовать снова
	e := NewEntity("todo", "1", `{"again":true}`)
	require.NoError(t, s.CreateEntity(ctx, e))
	assert.Equal(t, int64(1), e.Version)
}

// Из нескольких обновлений от одной версии проходит ровно одно
func testConcurrentUpdates(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	require.NoError(t, s.CreateEntity(ctx, NewEntity("counter", "c1", `{"value":0}`)))

	const writers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	var ok, conflicts int

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.UpdateEntity(ctx, NewEntity("counter", "c1", `{"value":1}`), 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, storage.ErrVersionConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, writers-1, conflicts)

	got, err := s.GetEntity(ctx, "counter", "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
}
