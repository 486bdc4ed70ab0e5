package boltdb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"syscall"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/offsync/internal/client/storage"
)

var (
	// BoltDB bucket names
	bucketEntities  = []byte("entities")
	bucketQueue     = []byte("queue")
	bucketConflicts = []byte("conflicts")
	bucketMetadata  = []byte("metadata")
)

// Sealer шифрует значения перед записью на диск
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// Option настраивает Storage
type Option func(*Storage)

// WithMaxSize ограничивает размер базы. 0 - без ограничений.
func WithMaxSize(bytes int64) Option {
	return func(s *Storage) {
		s.maxSize = bytes
	}
}

// Storage represents BoltDB storage implementation for client
type Storage struct {
	db      *bbolt.DB
	sealer  Sealer
	maxSize int64
	mu      sync.RWMutex
}

var _ storage.Storage = (*Storage)(nil)

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string, opts ...Option) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}
	for _, opt := range opts {
		opt(s)
	}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// UseSealer включает шифрование после открытия базы.
// Соль хранится в самой базе, поэтому ключ можно вывести только после New.
func (s *Storage) UseSealer(sealer Sealer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sealer = sealer
}

// Close closes the database connection. Repeated calls are no-op.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// EstimateSize returns the size of the database as seen by a read transaction
func (s *Storage) EstimateSize(ctx context.Context) (int64, error) {
	var size int64
	err := s.view(func(tx *bbolt.Tx) error {
		size = tx.Size()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return size, nil
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketEntities, bucketQueue, bucketConflicts, bucketMetadata} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// view выполняет read-only транзакцию
func (s *Storage) view(fn func(tx *bbolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.View(fn)
}

// update выполняет пишущую транзакцию. bbolt делает fsync до возврата из Update.
func (s *Storage) update(fn func(tx *bbolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return mapWriteError(s.db.Update(fn))
}

// checkQuota возвращает ErrStorageExhausted, если запись delta байт
// превысит лимит размера базы. Служебные записи синхронизации не ограничены.
func (s *Storage) checkQuota(ctx context.Context, tx *bbolt.Tx, delta int) error {
	if s.maxSize <= 0 || delta <= 0 || storage.QuotaExempt(ctx) {
		return nil
	}
	if tx.Size()+int64(delta) > s.maxSize {
		return fmt.Errorf("%w: write of %d bytes exceeds cache quota of %d bytes", storage.ErrStorageExhausted, delta, s.maxSize)
	}
	return nil
}

// mapWriteError сводит ошибки нехватки места от ОС к ErrStorageExhausted
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EFBIG) || errors.Is(err, syscall.EDQUOT) {
		return fmt.Errorf("%w: %w", storage.ErrStorageExhausted, err)
	}
	return err
}
