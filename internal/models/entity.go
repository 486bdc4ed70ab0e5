package models

import (
	"encoding/json"
	"time"
)

// CachedEntity представляет локально закешированный снимок одной удаленной записи.
// Ключ (EntityType, EntityID) уникален в пределах хранилища.
type CachedEntity struct {
	UpdatedAt   time.Time       `json:"updated_at"`            // UpdatedAt время последнего локального изменения
	EntityType  string          `json:"entity_type"`           // EntityType тип сущности (непрозрачный для движка)
	EntityID    string          `json:"entity_id"`             // EntityID идентификатор сущности
	Data        json.RawMessage `json:"data,omitempty"`        // Data последнее известное значение (серверное или оптимистичное)
	SyncedData  json.RawMessage `json:"synced_data,omitempty"` // SyncedData последнее подтвержденное сервером значение
	BaseVersion int64           `json:"base_version"`          // BaseVersion последняя подтвержденная версия (0 - ни разу не синхронизировалась)
	Dirty       bool            `json:"dirty"`                 // Dirty есть неподтвержденные мутации в очереди
	Deleted     bool            `json:"deleted"`               // Deleted локальный tombstone до подтверждения удаления
}

// Key returns the composite key of the entity.
func (e *CachedEntity) Key() EntityKey {
	return EntityKey{Type: e.EntityType, ID: e.EntityID}
}

// Clone создает глубокую копию записи
func (e *CachedEntity) Clone() *CachedEntity {
	return &CachedEntity{
		UpdatedAt:   e.UpdatedAt,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Data:        cloneRaw(e.Data),
		SyncedData:  cloneRaw(e.SyncedData),
		BaseVersion: e.BaseVersion,
		Dirty:       e.Dirty,
		Deleted:     e.Deleted,
	}
}

// EntityKey identifies an entity by type and id.
type EntityKey struct {
	Type string
	ID   string
}

// String returns "type/id".
func (k EntityKey) String() string {
	return k.Type + "/" + k.ID
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}
