package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/offsync/internal/client/storage"
	"github.com/iudanet/offsync/internal/client/storage/boltdb"
	"github.com/iudanet/offsync/internal/models"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// testClock управляемые часы для проверки backoff
type testClock struct {
	now time.Time
	mu  sync.Mutex
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestManager(t *testing.T, opts ...boltdb.Option) (*Manager, *boltdb.Storage, *testClock) {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "queue.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	clock := &testClock{now: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)}
	m := NewManager(store, Config{BaseDelay: 2 * time.Second, MaxRetries: 3}, setupTestLogger())
	m.now = clock.Now

	return m, store, clock
}

func seedEntity(t *testing.T, store *boltdb.Storage, id, data string, version int64) {
	t.Helper()
	require.NoError(t, store.PutEntity(context.Background(), &models.CachedEntity{
		EntityType:  "todo",
		EntityID:    id,
		Data:        json.RawMessage(data),
		SyncedData:  json.RawMessage(data),
		BaseVersion: version,
	}))
}

func getEntity(t *testing.T, store *boltdb.Storage, id string) *models.CachedEntity {
	t.Helper()
	e, err := store.GetEntity(context.Background(), "todo", id)
	require.NoError(t, err)
	return e
}

func getItem(t *testing.T, store *boltdb.Storage, id uint64) *models.QueueItem {
	t.Helper()
	item, err := store.GetQueueItem(context.Background(), id)
	require.NoError(t, err)
	return item
}

func TestManager_Enqueue_CreateGeneratesID(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t)

	changes := 0
	m.SetOnChange(func() { changes++ })

	qid, err := m.Enqueue(ctx, "todo", "", models.OperationCreate, json.RawMessage(`{"title":"buy milk"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, changes)

	item := getItem(t, store, qid)
	assert.NotEmpty(t, item.EntityID)
	assert.Equal(t, models.QueueStatusPending, item.Status)
	assert.Equal(t, int64(0), item.BaseVersion)

	entity := getEntity(t, store, item.EntityID)
	assert.True(t, entity.Dirty)
	assert.Equal(t, int64(0), entity.BaseVersion)
	assert.JSONEq(t, `{"title":"buy milk"}`, string(entity.Data))
	assert.Nil(t, entity.SyncedData)
}

func TestManager_Enqueue_UpdateUsesCachedBase(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t)
	seedEntity(t, store, "1", `{"title":"a","done":false}`, 4)

	qid, err := m.Enqueue(ctx, "todo", "1", models.OperationUpdate, json.RawMessage(`{"done":true}`), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), getItem(t, store, qid).BaseVersion)

	entity := getEntity(t, store, "1")
	assert.True(t, entity.Dirty)
	assert.Equal(t, int64(4), entity.BaseVersion)
	assert.JSONEq(t, `{"title":"a","done":true}`, string(entity.Data))
	assert.JSONEq(t, `{"title":"a","done":false}`, string(entity.SyncedData))

	// Оптимистичная запись не меняет базовую версию следующих мутаций
	qid2, err := m.Enqueue(ctx, "todo", "1", models.OperationUpdate, json.RawMessage(`{"title":"b"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), getItem(t, store, qid2).BaseVersion)

	// Явная базовая версия имеет приоритет
	base := int64(9)
	qid3, err := m.Enqueue(ctx, "todo", "1", models.OperationUpdate, json.RawMessage(`{"x":1}`), &base)
	require.NoError(t, err)
	assert.Equal(t, int64(9), getItem(t, store, qid3).BaseVersion)

	items, err := m.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestManager_Enqueue_Delete(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t)
	seedEntity(t, store, "1", `{"title":"a"}`, 2)

	qid, err := m.Enqueue(ctx, "todo", "1", models.OperationDelete, json.RawMessage(`{"ignored":true}`), nil)
	require.NoError(t, err)
	assert.Nil(t, getItem(t, store, qid).Payload)

	entity := getEntity(t, store, "1")
	assert.True(t, entity.Deleted)
	assert.True(t, entity.Dirty)

	// update за удалением ставится в очередь, надгробие сохраняется
	qid2, err := m.Enqueue(ctx, "todo", "1", models.OperationUpdate, json.RawMessage(`{"title":"b"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), getItem(t, store, qid2).BaseVersion)

	entity = getEntity(t, store, "1")
	assert.True(t, entity.Deleted)
	assert.JSONEq(t, `{"title":"a"}`, string(entity.Data))

	// повторное удаление отклоняется
	_, err = m.Enqueue(ctx, "todo", "1", models.OperationDelete, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidMutation)

	items, err := m.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestManager_Enqueue_Invalid(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t)
	seedEntity(t, store, "1", `{}`, 1)

	tests := []struct {
		name       string
		entityType string
		id         string
		op         models.Operation
		payload    string
	}{
		{name: "bad type", entityType: "Bad Type", id: "1", op: models.OperationUpdate, payload: `{}`},
		{name: "missing id", entityType: "todo", id: "", op: models.OperationUpdate, payload: `{}`},
		{name: "unknown op", entityType: "todo", id: "1", op: models.Operation("upsert"), payload: `{}`},
		{name: "invalid json", entityType: "todo", id: "1", op: models.OperationUpdate, payload: `{`},
		{name: "empty payload", entityType: "todo", id: "1", op: models.OperationUpdate, payload: ``},
		{name: "create existing", entityType: "todo", id: "1", op: models.OperationCreate, payload: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Enqueue(ctx, tt.entityType, tt.id, tt.op, json.RawMessage(tt.payload), nil)
			assert.ErrorIs(t, err, ErrInvalidMutation)
		})
	}

	items, err := m.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestManager_Enqueue_StorageExhausted(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t, boltdb.WithMaxSize(64*1024))
	seedEntity(t, store, "1", `{"title":"a"}`, 1)

	big := json.RawMessage(`{"blob":"` + strings.Repeat("x", 128*1024) + `"}`)
	_, err := m.Enqueue(ctx, "todo", "1", models.OperationUpdate, big, nil)
	require.ErrorIs(t, err, storage.ErrStorageExhausted)

	items, err := m.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	entity := getEntity(t, store, "1")
	assert.False(t, entity.Dirty)
	assert.JSONEq(t, `{"title":"a"}`, string(entity.Data))
}

func TestManager_RecordAttemptResult_SucceedsAtQuota(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t, boltdb.WithMaxSize(200*1024))

	payload := json.RawMessage(`{"blob":"` + strings.Repeat("x", 4*1024) + `"}`)
	var ids []uint64
	for i := 0; ; i++ {
		require.Less(t, i, 200, "quota was never reached")
		qid, err := m.Enqueue(ctx, "todo", fmt.Sprint(i), models.OperationCreate, payload, nil)
		if errors.Is(err, storage.ErrStorageExhausted) {
			break
		}
		require.NoError(t, err)
		ids = append(ids, qid)
	}
	require.Greater(t, len(ids), 1)

	// подтверждение сервера записывает SyncedData и растит кеш, но квота его не блокирует
	require.NoError(t, m.MarkInFlight(ctx, ids[0]))
	require.NoError(t, m.RecordAttemptResult(ctx, ids[0], Success("0", 1, nil)))

	_, err := store.GetQueueItem(ctx, ids[0])
	require.ErrorIs(t, err, storage.ErrQueueItemNotFound)
	entity := getEntity(t, store, "0")
	assert.Equal(t, int64(1), entity.BaseVersion)
	assert.JSONEq(t, string(payload), string(entity.SyncedData))
	assert.False(t, entity.Dirty)

	// сбой сети на следующем элементе тоже записывается
	require.NoError(t, m.RecordAttemptResult(ctx, ids[1], Retryable(errors.New("connection refused"))))
	assert.Equal(t, 1, getItem(t, store, ids[1]).RetryCount)

	// пользовательские мутации по-прежнему упираются в квоту
	_, err = m.Enqueue(ctx, "todo", "overflow", models.OperationCreate, payload, nil)
	require.ErrorIs(t, err, storage.ErrStorageExhausted)
}

func TestManager_Enqueue_RollsBackWhenCacheWriteFails(t *testing.T) {
	ctx := context.Background()
	writeErr := errors.New("disk failure")

	mock := &storage.StorageMock{
		GetEntityFunc: func(ctx context.Context, entityType, id string) (*models.CachedEntity, error) {
			return nil, storage.ErrEntryNotFound
		},
		EnqueueFunc: func(ctx context.Context, item *models.QueueItem) (uint64, error) {
			return 7, nil
		},
		PutEntityFunc: func(ctx context.Context, entity *models.CachedEntity) error {
			return writeErr
		},
		RemoveQueueItemFunc: func(ctx context.Context, id uint64) error {
			return nil
		},
	}
	m := NewManager(mock, DefaultConfig(), setupTestLogger())

	_, err := m.Enqueue(ctx, "todo", "1", models.OperationCreate, json.RawMessage(`{}`), nil)
	require.ErrorIs(t, err, writeErr)

	require.Len(t, mock.RemoveQueueItemCalls(), 1)
	assert.Equal(t, uint64(7), mock.RemoveQueueItemCalls()[0].Id)
}

func TestManager_NextBatch_OneHeadPerEntity(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t)
	seedEntity(t, store, "1", `{}`, 1)
	seedEntity(t, store, "2", `{}`, 1)

	a1, err := m.Enqueue(ctx, "todo", "1", models.OperationUpdate, json.RawMessage(`{"n":1}`), nil)
	require.NoError(t, err)
	_, err = m.Enqueue(ctx, "todo", "1", models.OperationUpdate, json.RawMessage(`{"n":2}`), nil)
	require.NoError(t, err)
	b1, err := m.Enqueue(ctx, "todo", "2", models.OperationUpdate, json.RawMessage(`{"n":1}`), nil)
	require.NoError(t, err)

	batch, err := m.NextBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, a1, batch[0].ID)
	assert.Equal(t, b1, batch[1].ID)

	batch, err = m.NextBatch(ctx, 1)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, a1, batch[0].ID)
}

func TestManager_NextBatch_BlockedEntities(t *testing.T) {
	ctx := context.Background()
	m, store, clock := newTestManager(t)
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		seedEntity(t, store, id, `{}`, 1)
	}

	enqueue := func(id string) uint64 {
		qid, err := m.Enqueue(ctx, "todo", id, models.OperationUpdate, json.RawMessage(`{"n":1}`), nil)
		require.NoError(t, err)
		return qid
	}

	inFlight := enqueue("1")
	enqueue("1")
	failed := enqueue("2")
	enqueue("2")
	backingOff := enqueue("3")
	conflicted := enqueue("4")
	ready := enqueue("5")

	require.NoError(t, m.MarkInFlight(ctx, inFlight))
	require.NoError(t, m.RecordAttemptResult(ctx, failed, Rejected(errors.New("bad"))))
	require.NoError(t, m.RecordAttemptResult(ctx, backingOff, Retryable(errors.New("timeout"))))
	_, err := m.MarkConflicted(ctx, &models.ConflictRecord{EntityType: "todo", EntityID: "4", QueueItemID: conflicted, RemoteVersion: 2})
	require.NoError(t, err)

	batch, err := m.NextBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, ready, batch[0].ID)

	next, err := m.NextAttemptAt(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, clock.Now().Add(2*time.Second), next, 0)

	// После backoff элемент снова готов
	clock.Advance(2 * time.Second)
	batch, err = m.NextBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, backingOff, batch[0].ID)
}

func TestManager_ResetInFlight(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t)
	seedEntity(t, store, "1", `{}`, 1)

	qid, err := m.Enqueue(ctx, "todo", "1", models.OperationUpdate, json.RawMessage(`{"n":1}`), nil)
	require.NoError(t, err)
	require.NoError(t, m.MarkInFlight(ctx, qid))

	n, err := m.ResetInFlight(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	item := getItem(t, store, qid)
	assert.Equal(t, models.QueueStatusPending, item.Status)
	assert.Equal(t, 0, item.RetryCount)
}

func TestManager_RecordAttemptResult_RetryCap(t *testing.T) {
	ctx := context.Background()
	m, store, clock := newTestManager(t)
	seedEntity(t, store, "1", `{}`, 1)

	qid, err := m.Enqueue(ctx, "todo", "1", models.OperationUpdate, json.RawMessage(`{"n":1}`), nil)
	require.NoError(t, err)

	start := clock.Now()
	require.NoError(t, m.RecordAttemptResult(ctx, qid, Retryable(errors.New("connection refused"))))
	item := getItem(t, store, qid)
	assert.Equal(t, models.QueueStatusPending, item.Status)
	assert.Equal(t, 1, item.RetryCount)
	assert.Equal(t, models.ErrorKindTransport, item.LastError)
	assert.Equal(t, "connection refused", item.LastErrorMessage)
	assert.WithinDuration(t, start.Add(2*time.Second), item.NextAttemptAt, 0)

	require.NoError(t, m.RecordAttemptResult(ctx, qid, Retryable(errors.New("timeout"))))
	item = getItem(t, store, qid)
	assert.Equal(t, 2, item.RetryCount)
	assert.WithinDuration(t, start.Add(4*time.Second), item.NextAttemptAt, 0)

	require.NoError(t, m.RecordAttemptResult(ctx, qid, Retryable(errors.New("timeout"))))
	item = getItem(t, store, qid)
	assert.Equal(t, models.QueueStatusFailed, item.Status)
	assert.Equal(t, 3, item.RetryCount)

	// Упавший элемент больше не выдается автоматически
	clock.Advance(time.Hour)
	batch, err := m.NextBatch(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, batch)

	counts, err := m.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.QueueCounts{Failed: 1}, counts)
}

func TestManager_RecordAttemptResult_TerminalFailures(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t)
	seedEntity(t, store, "1", `{}`, 1)
	seedEntity(t, store, "2", `{}`, 1)

	v, err := m.Enqueue(ctx, "todo", "1", models.OperationUpdate, json.RawMessage(`{"n":1}`), nil)
	require.NoError(t, err)
	nf, err := m.Enqueue(ctx, "todo", "2", models.OperationUpdate, json.RawMessage(`{"n":1}`), nil)
	require.NoError(t, err)

	require.NoError(t, m.RecordAttemptResult(ctx, v, Rejected(errors.New("title required"))))
	require.NoError(t, m.RecordAttemptResult(ctx, nf, NotFound(errors.New("gone"))))

	item := getItem(t, store, v)
	assert.Equal(t, models.QueueStatusFailed, item.Status)
	assert.Equal(t, models.ErrorKindValidation, item.LastError)
	assert.Equal(t, 0, item.RetryCount)

	item = getItem(t, store, nf)
	assert.Equal(t, models.QueueStatusFailed, item.Status)
	assert.Equal(t, models.ErrorKindNotFound, item.LastError)
}

func TestManager_RecordAttemptResult_Abandoned(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t)
	seedEntity(t, store, "1", `{}`, 1)

	qid, err := m.Enqueue(ctx, "todo", "1", models.OperationUpdate, json.RawMessage(`{"n":1}`), nil)
	require.NoError(t, err)
	require.NoError(t, m.MarkInFlight(ctx, qid))
	require.NoError(t, m.RecordAttemptResult(ctx, qid, Abandoned()))

	item := getItem(t, store, qid)
	assert.Equal(t, models.QueueStatusPending, item.Status)
	assert.Equal(t, 0, item.RetryCount)
	assert.Equal(t, models.ErrorKindNone, item.LastError)
}

func TestManager_RecordAttemptResult_SuccessUpdatesCacheAndRebases(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t)
	seedEntity(t, store, "1", `{"title":"a","n":0}`, 3)

	first, err := m.Enqueue(ctx, "todo", "1", models.OperationUpdate, json.RawMessage(`{"n":1}`), nil)
	require.NoError(t, err)
	second, err := m.Enqueue(ctx, "todo", "1", models.OperationUpdate, json.RawMessage(`{"n":2}`), nil)
	require.NoError(t, err)

	require.NoError(t, m.RecordAttemptResult(ctx, first, Success("1", 4, json.RawMessage(`{"title":"a","n":1}`))))

	_, err = store.GetQueueItem(ctx, first)
	assert.ErrorIs(t, err, storage.ErrQueueItemNotFound)

	// Следующая мутация переведена на новую версию, кеш сохраняет оптимистичное значение
	assert.Equal(t, int64(4), getItem(t, store, second).BaseVersion)
	entity := getEntity(t, store, "1")
	assert.Equal(t, int64(4), entity.BaseVersion)
	assert.True(t, entity.Dirty)
	assert.JSONEq(t, `{"title":"a","n":2}`, string(entity.Data))
	assert.JSONEq(t, `{"title":"a","n":1}`, string(entity.SyncedData))

	// Порядок: теперь головной элемент - second
	batch, err := m.NextBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, second, batch[0].ID)

	require.NoError(t, m.RecordAttemptResult(ctx, second, Success("1", 5, json.RawMessage(`{"title":"a","n":2}`))))
	entity = getEntity(t, store, "1")
	assert.Equal(t, int64(5), entity.BaseVersion)
	assert.False(t, entity.Dirty)
	assert.JSONEq(t, `{"title":"a","n":2}`, string(entity.Data))

	// Повторная запись успеха ничего не меняет
	require.NoError(t, m.RecordAttemptResult(ctx, second, Success("1", 99, nil)))
	assert.Equal(t, int64(5), getEntity(t, store, "1").BaseVersion)
}

func TestManager_RecordAttemptResult_CreateReKeys(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t)
	m.newID = func() string { return "local-1" }

	create, err := m.Enqueue(ctx, "todo", "", models.OperationCreate, json.RawMessage(`{"title":"a"}`), nil)
	require.NoError(t, err)
	update, err := m.Enqueue(ctx, "todo", "local-1", models.OperationUpdate, json.RawMessage(`{"done":true}`), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), getItem(t, store, update).BaseVersion)

	require.NoError(t, m.RecordAttemptResult(ctx, create, Success("srv-9", 1, json.RawMessage(`{"title":"a"}`))))

	_, err = store.GetEntity(ctx, "todo", "local-1")
	assert.ErrorIs(t, err, storage.ErrEntryNotFound)

	entity := getEntity(t, store, "srv-9")
	assert.Equal(t, int64(1), entity.BaseVersion)
	assert.True(t, entity.Dirty)
	assert.JSONEq(t, `{"title":"a","done":true}`, string(entity.Data))

	item := getItem(t, store, update)
	assert.Equal(t, "srv-9", item.EntityID)
	assert.Equal(t, int64(1), item.BaseVersion)
}

func TestManager_RecordAttemptResult_DeleteRemovesEntity(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t)
	seedEntity(t, store, "1", `{"title":"a"}`, 2)

	qid, err := m.Enqueue(ctx, "todo", "1", models.OperationDelete, nil, nil)
	require.NoError(t, err)
	require.NoError(t, m.RecordAttemptResult(ctx, qid, Success("", 0, nil)))

	_, err = store.GetEntity(ctx, "todo", "1")
	assert.ErrorIs(t, err, storage.ErrEntryNotFound)
}

func TestManager_RecordAttemptResult_UnknownKind(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestManager(t)
	seedEntity(t, store, "1", `{}`, 1)

	qid, err := m.Enqueue(ctx, "todo", "1", models.OperationUpdate, json.RawMessage(`{"n":1}`), nil)
	require.NoError(t, err)
	assert.Error(t, m.RecordAttemptResult(ctx, qid, Outcome{Kind: OutcomeKind(42)}))
	assert.Equal(t, "unknown", OutcomeKind(42).String())
}
