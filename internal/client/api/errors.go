package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates that the server rejected the mutation as invalid
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates that the entity does not exist on the server
	ErrNotFound = errors.New("entity not found")

	// ErrUnauthorized indicates that the bearer token was rejected
	ErrUnauthorized = errors.New("unauthorized")
)

// VersionConflictError возвращается, когда ожидаемая версия не совпала с текущей на сервере
type VersionConflictError struct {
	CurrentValue   json.RawMessage
	CurrentVersion int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict: server is at version %d", e.CurrentVersion)
}

// ValidationError описывает отказ сервера принять мутацию
type ValidationError struct {
	Message    string
	StatusCode int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("server rejected mutation (%d): %s", e.StatusCode, e.Message)
}

// Is позволяет проверять errors.Is(err, ErrValidation)
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TransportError сетевая ошибка, таймаут или ответ 5xx/429. Повторяется с backoff.
type TransportError struct {
	Err        error
	Op         string
	StatusCode int
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: server error (%d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
