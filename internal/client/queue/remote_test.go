package queue

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/offsync/internal/client/storage"
	"github.com/iudanet/offsync/internal/models"
)

func remoteEntity(id, data string, version int64) *models.CachedEntity {
	return &models.CachedEntity{EntityType: "todo", EntityID: id, Data: json.RawMessage(data), BaseVersion: version}
}

func TestManager_ApplyRemote(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t)

	seedEntity(t, store, "clean", `{"title":"old"}`, 1)
	seedEntity(t, store, "gone", `{"title":"deleted on server"}`, 3)
	seedEntity(t, store, "dirty", `{"title":"a"}`, 1)
	_, err := m.Enqueue(ctx, "todo", "dirty", models.OperationUpdate, json.RawMessage(`{"title":"local"}`), nil)
	require.NoError(t, err)

	n, err := m.ApplyRemote(ctx, "todo", []*models.CachedEntity{
		remoteEntity("clean", `{"title":"new"}`, 2),
		remoteEntity("dirty", `{"title":"remote"}`, 5),
		remoteEntity("fresh", `{"title":"fresh"}`, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	clean := getEntity(t, store, "clean")
	assert.Equal(t, int64(2), clean.BaseVersion)
	assert.JSONEq(t, `{"title":"new"}`, string(clean.Data))
	assert.JSONEq(t, `{"title":"new"}`, string(clean.SyncedData))

	// Локальные мутации не перезаписываются
	dirty := getEntity(t, store, "dirty")
	assert.Equal(t, int64(1), dirty.BaseVersion)
	assert.JSONEq(t, `{"title":"local"}`, string(dirty.Data))

	fresh := getEntity(t, store, "fresh")
	assert.False(t, fresh.Dirty)

	_, err = store.GetEntity(ctx, "todo", "gone")
	assert.ErrorIs(t, err, storage.ErrEntryNotFound)
}

func TestManager_ApplyRemote_Unchanged(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t)
	seedEntity(t, store, "1", `{"a":1}`, 4)

	n, err := m.ApplyRemote(ctx, "todo", []*models.CachedEntity{remoteEntity("1", `{"a": 1}`, 4)})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestManager_ApplyRemote_KeepsUnsyncedCreate(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t)

	id, err := m.Enqueue(ctx, "todo", "local-1", models.OperationCreate, json.RawMessage(`{"title":"offline"}`), nil)
	require.NoError(t, err)
	require.NoError(t, store.RemoveQueueItem(ctx, id))

	// Никогда не синхронизированная сущность (BaseVersion 0) не удаляется
	n, err := m.ApplyRemote(ctx, "todo", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	getEntity(t, store, "local-1")
}
