package boltdb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/offsync/internal/client/storage"
	"github.com/iudanet/offsync/internal/models"
)

func createTestQueueItem(id string, op models.Operation) *models.QueueItem {
	return &models.QueueItem{
		EntityType: "todo",
		EntityID:   id,
		Operation:  op,
		Payload:    []byte(`{"title":"` + id + `"}`),
		Status:     models.QueueStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestStorage_Enqueue_MonotonicIDs(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	var prev uint64
	for i := 0; i < 5; i++ {
		item := createTestQueueItem("1", models.OperationUpdate)
		id, err := store.Enqueue(ctx, item)
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		assert.Equal(t, id, item.ID)
		prev = id
	}
}

func TestStorage_Enqueue_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	const n = 20
	ids := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := store.Enqueue(ctx, createTestQueueItem("1", models.OperationUpdate))
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestStorage_ListQueue_OrderAndFilter(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	var ids []uint64
	for _, id := range []string{"c", "a", "b"} {
		qid, err := store.Enqueue(ctx, createTestQueueItem(id, models.OperationCreate))
		require.NoError(t, err)
		ids = append(ids, qid)
	}

	failed := models.QueueStatusFailed
	require.NoError(t, store.UpdateQueueItem(ctx, ids[1], models.QueueItemPatch{Status: &failed}))

	all, err := store.ListQueue(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].EntityID)
	assert.Equal(t, "a", all[1].EntityID)
	assert.Equal(t, "b", all[2].EntityID)

	onlyFailed, err := store.ListQueue(ctx, &failed)
	require.NoError(t, err)
	require.Len(t, onlyFailed, 1)
	assert.Equal(t, ids[1], onlyFailed[0].ID)
}

func TestStorage_UpdateQueueItem(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	id, err := store.Enqueue(ctx, createTestQueueItem("1", models.OperationUpdate))
	require.NoError(t, err)

	retry := 2
	kind := models.ErrorKindTransport
	next := time.Now().Add(4 * time.Second).UTC()
	err = store.UpdateQueueItem(ctx, id, models.QueueItemPatch{
		RetryCount:    &retry,
		LastError:     &kind,
		NextAttemptAt: &next,
	})
	require.NoError(t, err)

	item, err := store.GetQueueItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, item.RetryCount)
	assert.Equal(t, models.ErrorKindTransport, item.LastError)
	assert.True(t, next.Equal(item.NextAttemptAt))
	assert.Equal(t, models.QueueStatusPending, item.Status)
	assert.JSONEq(t, `{"title":"1"}`, string(item.Payload))
}

func TestStorage_UpdateQueueItem_NotFound(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	status := models.QueueStatusFailed
	err := store.UpdateQueueItem(ctx, 42, models.QueueItemPatch{Status: &status})
	assert.ErrorIs(t, err, storage.ErrQueueItemNotFound)
}

func TestStorage_RemoveQueueItem(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	id, err := store.Enqueue(ctx, createTestQueueItem("1", models.OperationDelete))
	require.NoError(t, err)

	require.NoError(t, store.RemoveQueueItem(ctx, id))
	_, err = store.GetQueueItem(ctx, id)
	assert.ErrorIs(t, err, storage.ErrQueueItemNotFound)

	// Идемпотентно
	assert.NoError(t, store.RemoveQueueItem(ctx, id))
}
