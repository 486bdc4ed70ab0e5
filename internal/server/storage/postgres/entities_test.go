package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/offsync/internal/server/storage"
	"github.com/iudanet/offsync/internal/server/storage/storagetest"
)

// getTestStorage подключается к тестовой базе из OFFSYNC_TEST_POSTGRES_URL и очищает таблицу
func getTestStorage(t *testing.T) storage.Storage {
	t.Helper()

	url := os.Getenv("OFFSYNC_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("OFFSYNC_TEST_POSTGRES_URL is not set")
	}

	ctx := context.Background()
	s, err := New(ctx, url)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.pool.Exec(ctx, `TRUNCATE entities`)
	require.NoError(t, err)

	return s
}

func TestEntityStorage(t *testing.T) {
	storagetest.Run(t, getTestStorage)
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New(context.Background(), "not a url ://")
	require.Error(t, err)
}
