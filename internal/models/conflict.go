package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ConflictRecord материализуется, когда base_version мутации не совпадает
// с текущей версией на сервере и значения расходятся.
type ConflictRecord struct {
	DetectedAt      time.Time       `json:"detected_at"`
	EntityType      string          `json:"entity_type"`
	EntityID        string          `json:"entity_id"`
	LocalValue      json.RawMessage `json:"local_value,omitempty"`       // LocalValue payload мутации поверх закешированных данных (nil для delete)
	RemoteValue     json.RawMessage `json:"remote_value,omitempty"`      // RemoteValue текущее значение на сервере
	LastSyncedValue json.RawMessage `json:"last_synced_value,omitempty"` // LastSyncedValue последний подтвержденный снимок
	QueueItemID     uint64          `json:"queue_item_id"`               // QueueItemID элемент очереди, вызвавший конфликт
	RemoteVersion   int64           `json:"remote_version"`              // RemoteVersion текущая версия на сервере
}

// Key returns the composite key of the conflicting entity.
func (c *ConflictRecord) Key() EntityKey {
	return EntityKey{Type: c.EntityType, ID: c.EntityID}
}

// Resolution выбор стороны при разрешении конфликта
type Resolution string

const (
	UseLocal  Resolution = "use_local"
	UseServer Resolution = "use_server"
)

// ParseResolution accepts "local", "server", "use_local" and "use_server".
func ParseResolution(s string) (Resolution, error) {
	switch s {
	case "local", string(UseLocal):
		return UseLocal, nil
	case "server", string(UseServer):
		return UseServer, nil
	default:
		return "", fmt.Errorf("unknown resolution %q (expected local or server)", s)
	}
}
