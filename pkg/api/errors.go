package api

import "encoding/json"

// Коды ошибок в поле ErrorResponse.Error
const (
	ErrCodeVersionConflict = "version_conflict"
	ErrCodeValidation      = "validation_failed"
	ErrCodeNotFound        = "not_found"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeBadRequest      = "bad_request"
	ErrCodeInternal        = "internal_error"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // код ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// VersionConflictResponse тело ответа 409: текущее состояние сущности на сервере
type VersionConflictResponse struct {
	Error          string          `json:"error"`
	Message        string          `json:"message,omitempty"`
	CurrentValue   json.RawMessage `json:"current_value,omitempty"`
	CurrentVersion int64           `json:"current_version"`
}
