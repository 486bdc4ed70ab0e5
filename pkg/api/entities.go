package api

import (
	"encoding/json"
	"time"
)

// Entity представляет одну запись на сервере
type Entity struct {
	UpdatedAt time.Time       `json:"updated_at"`
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Version   int64           `json:"version"`
}

// CreateEntityRequest тело POST /api/v1/entities/{type}
type CreateEntityRequest struct {
	ID   string          `json:"id,omitempty"` // ID клиентский id; сервер генерирует свой, если пусто
	Data json.RawMessage `json:"data"`
}

// UpdateEntityRequest тело PUT /api/v1/entities/{type}/{id}.
// Data накладывается на текущее значение как shallow merge patch.
type UpdateEntityRequest struct {
	ExpectedVersion *int64          `json:"expected_version,omitempty"` // nil - без проверки версии (last write wins)
	Data            json.RawMessage `json:"data"`
}

// ListEntitiesResponse ответ GET /api/v1/entities/{type}
type ListEntitiesResponse struct {
	Entities []Entity `json:"entities"`
}

// HealthResponse ответ GET /api/v1/health
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}
