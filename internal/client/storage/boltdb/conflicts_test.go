package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/offsync/internal/client/storage"
	"github.com/iudanet/offsync/internal/models"
)

func TestStorage_Conflicts(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	_, err := store.GetConflict(ctx, "todo", "1")
	assert.ErrorIs(t, err, storage.ErrConflictNotFound)

	record := &models.ConflictRecord{
		EntityType:      "todo",
		EntityID:        "1",
		QueueItemID:     7,
		LocalValue:      []byte(`{"title":"local"}`),
		RemoteValue:     []byte(`{"title":"remote"}`),
		LastSyncedValue: []byte(`{"title":"base"}`),
		RemoteVersion:   5,
		DetectedAt:      time.Now().UTC(),
	}
	require.NoError(t, store.SaveConflict(ctx, record))

	got, err := store.GetConflict(ctx, "todo", "1")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got.QueueItemID)
	assert.Equal(t, int64(5), got.RemoteVersion)
	assert.JSONEq(t, `{"title":"local"}`, string(got.LocalValue))
	assert.JSONEq(t, `{"title":"remote"}`, string(got.RemoteValue))
	assert.JSONEq(t, `{"title":"base"}`, string(got.LastSyncedValue))

	// Повторное сохранение заменяет запись (не более одной на сущность)
	record.RemoteVersion = 6
	require.NoError(t, store.SaveConflict(ctx, record))
	require.NoError(t, store.SaveConflict(ctx, &models.ConflictRecord{EntityType: "todo", EntityID: "2", RemoteVersion: 1}))

	list, err := store.ListConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(6), list[0].RemoteVersion)
	assert.Nil(t, list[1].LocalValue)

	require.NoError(t, store.DeleteConflict(ctx, "todo", "1"))
	require.NoError(t, store.DeleteConflict(ctx, "todo", "1"))
	_, err = store.GetConflict(ctx, "todo", "1")
	assert.ErrorIs(t, err, storage.ErrConflictNotFound)
}
