package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Operation тип мутации
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// ParseOperation converts a string into an Operation.
func ParseOperation(s string) (Operation, error) {
	switch op := Operation(s); op {
	case OperationCreate, OperationUpdate, OperationDelete:
		return op, nil
	default:
		return "", fmt.Errorf("unknown operation %q", s)
	}
}

// QueueStatus статус элемента очереди
type QueueStatus string

const (
	QueueStatusPending  QueueStatus = "pending"
	QueueStatusInFlight QueueStatus = "in_flight"
	QueueStatusFailed   QueueStatus = "failed"
)

// ErrorKind классификация последней ошибки элемента очереди
type ErrorKind string

const (
	ErrorKindNone       ErrorKind = ""
	ErrorKindTransport  ErrorKind = "transport"
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindNotFound   ErrorKind = "not_found"
	ErrorKindConflict   ErrorKind = "conflict"
)

// QueueItem представляет одну ожидающую отправки мутацию.
type QueueItem struct {
	CreatedAt        time.Time       `json:"created_at"`
	NextAttemptAt    time.Time       `json:"next_attempt_at"`    // NextAttemptAt не раньше этого момента элемент готов к отправке
	EntityType       string          `json:"entity_type"`        // EntityType тип сущности
	EntityID         string          `json:"entity_id"`          // EntityID идентификатор сущности (локальный для create до подтверждения)
	Operation        Operation       `json:"operation"`          // Operation create/update/delete
	Status           QueueStatus     `json:"status"`             // Status pending/in_flight/failed
	LastError        ErrorKind       `json:"last_error"`         // LastError вид последней ошибки
	LastErrorMessage string          `json:"last_error_message"` // LastErrorMessage текст последней ошибки
	Payload          json.RawMessage `json:"payload,omitempty"`  // Payload непрозрачные данные мутации
	ID               uint64          `json:"id"`                 // ID монотонно растущий идентификатор (порядок вставки)
	BaseVersion      int64           `json:"base_version"`       // BaseVersion версия, относительно которой вычислена мутация
	RetryCount       int             `json:"retry_count"`        // RetryCount количество неудачных попыток подряд
}

// Key returns the composite key of the entity the item mutates.
func (q *QueueItem) Key() EntityKey {
	return EntityKey{Type: q.EntityType, ID: q.EntityID}
}

// IsConflicted reports whether the item is parked behind an open conflict.
func (q *QueueItem) IsConflicted() bool {
	return q.Status == QueueStatusFailed && q.LastError == ErrorKindConflict
}

// Clone создает глубокую копию элемента
func (q *QueueItem) Clone() *QueueItem {
	c := *q
	c.Payload = cloneRaw(q.Payload)
	return &c
}

// QueueItemPatch describes a partial update of a queue item. Nil fields are
// left untouched.
type QueueItemPatch struct {
	NextAttemptAt    *time.Time
	EntityID         *string
	Operation        *Operation
	Status           *QueueStatus
	LastError        *ErrorKind
	LastErrorMessage *string
	Payload          json.RawMessage
	BaseVersion      *int64
	RetryCount       *int
}

// Apply применяет patch к элементу очереди
func (p QueueItemPatch) Apply(item *QueueItem) {
	if p.NextAttemptAt != nil {
		item.NextAttemptAt = *p.NextAttemptAt
	}
	if p.EntityID != nil {
		item.EntityID = *p.EntityID
	}
	if p.Operation != nil {
		item.Operation = *p.Operation
	}
	if p.Status != nil {
		item.Status = *p.Status
	}
	if p.LastError != nil {
		item.LastError = *p.LastError
	}
	if p.LastErrorMessage != nil {
		item.LastErrorMessage = *p.LastErrorMessage
	}
	if p.Payload != nil {
		item.Payload = cloneRaw(p.Payload)
	}
	if p.BaseVersion != nil {
		item.BaseVersion = *p.BaseVersion
	}
	if p.RetryCount != nil {
		item.RetryCount = *p.RetryCount
	}
}

// QueueCounts aggregates queue items by state.
type QueueCounts struct {
	Pending  int
	InFlight int
	Failed   int
	// Conflicted items are failed items parked behind a conflict record;
	// they are not included in Failed.
	Conflicted int
}
