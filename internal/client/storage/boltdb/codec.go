package boltdb

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/iudanet/offsync/internal/client/storage"
	"github.com/iudanet/offsync/internal/models"
)

// entityRecord - формат хранения CachedEntity.
// При включенном шифровании Data/SyncedData переносятся в Sealed* поля.
type entityRecord struct {
	models.CachedEntity
	SealedData       []byte `json:"sealed_data,omitempty"`
	SealedSyncedData []byte `json:"sealed_synced_data,omitempty"`
}

type queueRecord struct {
	models.QueueItem
	SealedPayload []byte `json:"sealed_payload,omitempty"`
}

type conflictRecord struct {
	models.ConflictRecord
	SealedLocal      []byte `json:"sealed_local,omitempty"`
	SealedRemote     []byte `json:"sealed_remote,omitempty"`
	SealedLastSynced []byte `json:"sealed_last_synced,omitempty"`
}

// seal шифрует значение, если задан sealer.
// Возвращает либо открытое значение, либо зашифрованное.
func (s *Storage) seal(raw json.RawMessage) (json.RawMessage, []byte, error) {
	if s.sealer == nil || len(raw) == 0 {
		return raw, nil, nil
	}
	sealed, err := s.sealer.Seal(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to seal value: %w", err)
	}
	return nil, sealed, nil
}

func (s *Storage) open(raw json.RawMessage, sealed []byte) (json.RawMessage, error) {
	if len(sealed) == 0 {
		return raw, nil
	}
	if s.sealer == nil {
		return nil, storage.ErrCacheLocked
	}
	plain, err := s.sealer.Open(sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to open sealed value: %w", err)
	}
	return plain, nil
}

func (s *Storage) encodeEntity(e *models.CachedEntity) ([]byte, error) {
	rec := entityRecord{CachedEntity: *e}
	var err error
	if rec.Data, rec.SealedData, err = s.seal(e.Data); err != nil {
		return nil, err
	}
	if rec.SyncedData, rec.SealedSyncedData, err = s.seal(e.SyncedData); err != nil {
		return nil, err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

func (s *Storage) decodeEntity(data []byte) (*models.CachedEntity, error) {
	var rec entityRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	var err error
	if rec.Data, err = s.open(rec.Data, rec.SealedData); err != nil {
		return nil, err
	}
	if rec.SyncedData, err = s.open(rec.SyncedData, rec.SealedSyncedData); err != nil {
		return nil, err
	}
	return &rec.CachedEntity, nil
}

func (s *Storage) encodeQueueItem(item *models.QueueItem) ([]byte, error) {
	rec := queueRecord{QueueItem: *item}
	var err error
	if rec.Payload, rec.SealedPayload, err = s.seal(item.Payload); err != nil {
		return nil, err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal queue item: %w", err)
	}
	return data, nil
}

func (s *Storage) decodeQueueItem(data []byte) (*models.QueueItem, error) {
	var rec queueRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queue item: %w", err)
	}
	var err error
	if rec.Payload, err = s.open(rec.Payload, rec.SealedPayload); err != nil {
		return nil, err
	}
	return &rec.QueueItem, nil
}

func (s *Storage) encodeConflict(c *models.ConflictRecord) ([]byte, error) {
	rec := conflictRecord{ConflictRecord: *c}
	var err error
	if rec.LocalValue, rec.SealedLocal, err = s.seal(c.LocalValue); err != nil {
		return nil, err
	}
	if rec.RemoteValue, rec.SealedRemote, err = s.seal(c.RemoteValue); err != nil {
		return nil, err
	}
	if rec.LastSyncedValue, rec.SealedLastSynced, err = s.seal(c.LastSyncedValue); err != nil {
		return nil, err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conflict: %w", err)
	}
	return data, nil
}

func (s *Storage) decodeConflict(data []byte) (*models.ConflictRecord, error) {
	var rec conflictRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conflict: %w", err)
	}
	var err error
	if rec.LocalValue, err = s.open(rec.LocalValue, rec.SealedLocal); err != nil {
		return nil, err
	}
	if rec.RemoteValue, err = s.open(rec.RemoteValue, rec.SealedRemote); err != nil {
		return nil, err
	}
	if rec.LastSyncedValue, err = s.open(rec.LastSyncedValue, rec.SealedLastSynced); err != nil {
		return nil, err
	}
	return &rec.ConflictRecord, nil
}

// itob кодирует id очереди в big-endian, чтобы порядок ключей совпадал с порядком вставки
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func conflictKey(entityType, id string) []byte {
	return []byte(entityType + "/" + id)
}
