package queue

import (
	"encoding/json"

	"github.com/iudanet/offsync/internal/models"
)

// OutcomeKind результат одной попытки отправки
type OutcomeKind int

const (
	// OutcomeSuccess сервер принял мутацию
	OutcomeSuccess OutcomeKind = iota
	// OutcomeRetryable транспортная ошибка или таймаут
	OutcomeRetryable
	// OutcomeValidation сервер отклонил мутацию как некорректную
	OutcomeValidation
	// OutcomeNotFound сущность не существует на сервере
	OutcomeNotFound
	// OutcomeAbandoned попытка прервана (offline/cancel), результат неизвестен
	OutcomeAbandoned
)

// String returns a human-readable representation of the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeValidation:
		return "validation"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Outcome описывает результат попытки для RecordAttemptResult
type Outcome struct {
	Err error
	// ServerID id сущности, присвоенный сервером при create
	ServerID string
	// Data подтвержденное сервером значение (nil для delete)
	Data    json.RawMessage
	Version int64
	Kind    OutcomeKind
}

// Success builds a success outcome
func Success(serverID string, version int64, data json.RawMessage) Outcome {
	return Outcome{Kind: OutcomeSuccess, ServerID: serverID, Version: version, Data: data}
}

// Retryable builds a transport failure outcome
func Retryable(err error) Outcome {
	return Outcome{Kind: OutcomeRetryable, Err: err}
}

// Rejected builds a terminal validation failure outcome
func Rejected(err error) Outcome {
	return Outcome{Kind: OutcomeValidation, Err: err}
}

// NotFound builds a terminal not-found outcome
func NotFound(err error) Outcome {
	return Outcome{Kind: OutcomeNotFound, Err: err}
}

// Abandoned builds an outcome for an attempt whose result is unknown
func Abandoned() Outcome {
	return Outcome{Kind: OutcomeAbandoned}
}

func (o Outcome) errorKind() models.ErrorKind {
	switch o.Kind {
	case OutcomeRetryable:
		return models.ErrorKindTransport
	case OutcomeValidation:
		return models.ErrorKindValidation
	case OutcomeNotFound:
		return models.ErrorKindNotFound
	default:
		return models.ErrorKindNone
	}
}

func (o Outcome) message() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
