package boltdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/offsync/internal/client/storage"
	"github.com/iudanet/offsync/internal/crypto"
	"github.com/iudanet/offsync/internal/models"
)

// createTestStorage создает временное хранилище для тестов
func createTestStorage(t *testing.T, opts ...Option) *Storage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := New(context.Background(), dbPath, opts...)
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func TestNew_Success(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "testdb.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	// Проверяем что файл БД действительно создан
	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	// Проверяем, что бакеты существуют
	err = store.db.View(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketEntities, bucketQueue, bucketConflicts, bucketMetadata} {
			if tx.Bucket(b) == nil {
				return fmt.Errorf("bucket %s: %w", b, os.ErrNotExist)
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "db"))
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, filepath.Join(t.TempDir(), "testdb.db"))
	require.NoError(t, err)

	require.NoError(t, store.Close())
	assert.Nil(t, store.db)

	// Второй вызов Close ничего не делает
	require.NoError(t, store.Close())

	_, err = store.GetEntity(ctx, "todo", "1")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	err = store.PutEntity(ctx, &models.CachedEntity{EntityType: "todo", EntityID: "1"})
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = store.Enqueue(ctx, &models.QueueItem{EntityType: "todo", EntityID: "1"})
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestReopen_PersistsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "testdb.db")

	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.PutEntity(ctx, &models.CachedEntity{
		EntityType: "todo", EntityID: "1", Data: []byte(`{"title":"a"}`), BaseVersion: 3,
	}))
	id, err := store.Enqueue(ctx, &models.QueueItem{EntityType: "todo", EntityID: "1", Operation: models.OperationUpdate})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	entity, err := store.GetEntity(ctx, "todo", "1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), entity.BaseVersion)

	item, err := store.GetQueueItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.OperationUpdate, item.Operation)

	// Последовательность id продолжается после переоткрытия
	next, err := store.Enqueue(ctx, &models.QueueItem{EntityType: "todo", EntityID: "1"})
	require.NoError(t, err)
	assert.Greater(t, next, id)
}

func TestQuota_RejectsOversizedWrite(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t, WithMaxSize(64*1024))

	size, err := store.EstimateSize(ctx)
	require.NoError(t, err)
	require.Less(t, size, int64(64*1024))

	big := []byte(`{"blob":"` + strings.Repeat("x", 128*1024) + `"}`)

	err = store.PutEntity(ctx, &models.CachedEntity{EntityType: "todo", EntityID: "1", Data: big})
	require.ErrorIs(t, err, storage.ErrStorageExhausted)
	_, err = store.GetEntity(ctx, "todo", "1")
	assert.ErrorIs(t, err, storage.ErrEntryNotFound)

	_, err = store.Enqueue(ctx, &models.QueueItem{EntityType: "todo", EntityID: "1", Payload: big})
	require.ErrorIs(t, err, storage.ErrStorageExhausted)
	items, err := store.ListQueue(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Небольшие записи проходят
	require.NoError(t, store.PutEntity(ctx, &models.CachedEntity{EntityType: "todo", EntityID: "2", Data: []byte(`{}`)}))
}

func TestQuota_CountsOnlyGrowth(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t, WithMaxSize(200*1024))
	blob := func(c string, n int) []byte {
		return []byte(`{"blob":"` + strings.Repeat(c, n) + `"}`)
	}

	// заполняем кеш до квоты
	exhausted := false
	for i := 0; i < 200; i++ {
		err := store.PutEntity(ctx, &models.CachedEntity{EntityType: "todo", EntityID: fmt.Sprint(i), Data: blob("x", 4*1024)})
		if errors.Is(err, storage.ErrStorageExhausted) {
			exhausted = true
			break
		}
		require.NoError(t, err)
	}
	require.True(t, exhausted)

	tests := []struct {
		name    string
		ctx     context.Context
		data    []byte
		wantErr bool
	}{
		{name: "same size overwrite", ctx: ctx, data: blob("y", 4*1024)},
		{name: "shrinking overwrite", ctx: ctx, data: []byte(`{}`)},
		{name: "growth", ctx: ctx, data: blob("z", 64*1024), wantErr: true},
		{name: "growth without quota", ctx: storage.WithoutQuota(ctx), data: blob("w", 64*1024)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, store.PutEntity(ctx, &models.CachedEntity{EntityType: "todo", EntityID: "0", Data: blob("x", 4*1024)}))

			err := store.PutEntity(tt.ctx, &models.CachedEntity{EntityType: "todo", EntityID: "0", Data: tt.data})
			if tt.wantErr {
				require.ErrorIs(t, err, storage.ErrStorageExhausted)
				return
			}
			require.NoError(t, err)
			entity, err := store.GetEntity(ctx, "todo", "0")
			require.NoError(t, err)
			assert.Equal(t, string(tt.data), string(entity.Data))
		})
	}
}

func TestMapWriteError(t *testing.T) {
	tests := []struct {
		err       error
		name      string
		exhausted bool
	}{
		{name: "nil", err: nil},
		{name: "enospc", err: fmt.Errorf("write: %w", syscall.ENOSPC), exhausted: true},
		{name: "efbig", err: &os.PathError{Op: "write", Path: "db", Err: syscall.EFBIG}, exhausted: true},
		{name: "edquot", err: syscall.EDQUOT, exhausted: true},
		{name: "other", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapWriteError(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.exhausted, errors.Is(got, storage.ErrStorageExhausted))
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestSealer_EncryptsAtRest(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "sealed.db")

	store, err := New(ctx, dbPath)
	require.NoError(t, err)

	salt, err := store.GetOrCreateSalt(ctx, crypto.SaltSize)
	require.NoError(t, err)
	sealer, err := crypto.NewSealerFromPassphrase("secret", salt)
	require.NoError(t, err)
	store.UseSealer(sealer)

	secret := `{"title":"top secret"}`
	require.NoError(t, store.PutEntity(ctx, &models.CachedEntity{
		EntityType: "todo", EntityID: "1", Data: []byte(secret), SyncedData: []byte(secret),
	}))
	id, err := store.Enqueue(ctx, &models.QueueItem{EntityType: "todo", EntityID: "1", Payload: []byte(secret)})
	require.NoError(t, err)

	entity, err := store.GetEntity(ctx, "todo", "1")
	require.NoError(t, err)
	assert.JSONEq(t, secret, string(entity.Data))
	assert.JSONEq(t, secret, string(entity.SyncedData))
	require.NoError(t, store.Close())

	raw, err := os.ReadFile(dbPath)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "top secret")

	// Без ключа зашифрованные значения недоступны
	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	_, err = store.GetEntity(ctx, "todo", "1")
	assert.ErrorIs(t, err, storage.ErrCacheLocked)

	salt2, err := store.GetOrCreateSalt(ctx, crypto.SaltSize)
	require.NoError(t, err)
	assert.Equal(t, salt, salt2)

	sealer, err = crypto.NewSealerFromPassphrase("secret", salt2)
	require.NoError(t, err)
	store.UseSealer(sealer)

	item, err := store.GetQueueItem(ctx, id)
	require.NoError(t, err)
	assert.JSONEq(t, secret, string(item.Payload))
}
