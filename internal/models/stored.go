package models

import (
	"encoding/json"
	"time"
)

// StoredEntity запись сущности в хранилище сервера
type StoredEntity struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Type      string
	ID        string
	Data      json.RawMessage
	Version   int64
}
