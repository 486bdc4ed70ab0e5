package boltdb

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	keyLastSyncTime = "last_sync_time"
	keyCacheSalt    = "cache_salt"
)

// SaveLastSyncTime saves the time of the last completed sync cycle
func (s *Storage) SaveLastSyncTime(ctx context.Context, t time.Time) error {
	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		// Храним UnixNano в big-endian
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, uint64(t.UnixNano()))

		return bucket.Put([]byte(keyLastSyncTime), b)
	})
	if err != nil {
		return fmt.Errorf("failed to save last sync time: %w", err)
	}

	return nil
}

// GetLastSyncTime retrieves the time of the last completed sync cycle
// Returns zero time if no sync has been performed yet
func (s *Storage) GetLastSyncTime(ctx context.Context) (time.Time, error) {
	var t time.Time

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		b := bucket.Get([]byte(keyLastSyncTime))
		if b == nil {
			// Синхронизации еще не было
			return nil
		}

		t = time.Unix(0, int64(binary.BigEndian.Uint64(b)))
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last sync time: %w", err)
	}

	return t, nil
}

// GetOrCreateSalt returns the salt for cache key derivation, generating it on first use
func (s *Storage) GetOrCreateSalt(ctx context.Context, size int) ([]byte, error) {
	var salt []byte

	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		if existing := bucket.Get([]byte(keyCacheSalt)); existing != nil {
			salt = append([]byte(nil), existing...)
			return nil
		}

		salt = make([]byte, size)
		if _, err := rand.Read(salt); err != nil {
			return fmt.Errorf("failed to generate salt: %w", err)
		}
		return bucket.Put([]byte(keyCacheSalt), salt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get cache salt: %w", err)
	}

	return salt, nil
}
