// Package conflict detects version conflicts reported by the remote authority
// and applies local-wins or server-wins resolutions.
package conflict

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/offsync/internal/client/api"
	"github.com/iudanet/offsync/internal/client/queue"
	"github.com/iudanet/offsync/internal/client/storage"
	"github.com/iudanet/offsync/internal/models"
)

// ErrSpuriousConflict возвращается, когда сервер сообщил о конфликте, но его
// версия совпадает с базовой версией мутации. Такая попытка повторяется как транспортная ошибка.
var ErrSpuriousConflict = errors.New("server reported a conflict at the mutation's base version")

// Options настройки детектора
type Options struct {
	// AutoResolveIdentical: если серверное значение совпадает с локальным,
	// мутация считается примененной, конфликт не создается
	AutoResolveIdentical bool
}

// DefaultOptions returns the default resolver options
func DefaultOptions() Options {
	return Options{AutoResolveIdentical: true}
}

// Store - часть хранилища, которую читает резолвер
type Store interface {
	storage.EntityStorage
	storage.ConflictStorage
}

// Resolver обнаруживает и разрешает конфликты версий
type Resolver struct {
	store  Store
	queue  *queue.Manager
	logger *slog.Logger
	now    func() time.Time
	opts   Options
}

// NewResolver creates a new conflict resolver
func NewResolver(store Store, q *queue.Manager, opts Options, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:  store,
		queue:  q,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// Detect обрабатывает ответ VersionConflict для элемента очереди.
//
// Конфликт фиксируется, если версия сервера отличается от базовой версии
// мутации и значение сервера отличается от локального результата. При
// совпадающих значениях (и включенном AutoResolveIdentical) мутация
// записывается как успешная и возвращается nil. Если у сущности уже есть
// открытый конфликт, возвращается он.
func (r *Resolver) Detect(ctx context.Context, item *models.QueueItem, conflictErr *api.VersionConflictError) (*models.ConflictRecord, error) {
	if conflictErr.CurrentVersion == item.BaseVersion {
		return nil, fmt.Errorf("%w: version %d", ErrSpuriousConflict, item.BaseVersion)
	}

	entity, err := r.store.GetEntity(ctx, item.EntityType, item.EntityID)
	if err != nil && !errors.Is(err, storage.ErrEntryNotFound) {
		return nil, fmt.Errorf("failed to read cached entity: %w", err)
	}

	var lastSynced []byte
	if entity != nil {
		lastSynced = entity.SyncedData
	}

	record := &models.ConflictRecord{
		EntityType:      item.EntityType,
		EntityID:        item.EntityID,
		QueueItemID:     item.ID,
		RemoteValue:     conflictErr.CurrentValue,
		RemoteVersion:   conflictErr.CurrentVersion,
		LastSyncedValue: lastSynced,
		DetectedAt:      r.now().UTC(),
	}

	// Локальное значение - мутация поверх снимка, от которого она вычислена
	switch item.Operation {
	case models.OperationCreate:
		record.LocalValue = item.Payload
	case models.OperationUpdate:
		if record.LocalValue, err = models.MergeData(lastSynced, item.Payload); err != nil {
			return nil, fmt.Errorf("failed to compute local value: %w", err)
		}
	case models.OperationDelete:
		record.LocalValue = nil
	}

	if r.opts.AutoResolveIdentical && models.EqualData(record.LocalValue, record.RemoteValue) {
		r.logger.Info("Conflict auto-resolved, values are identical",
			"entity_type", item.EntityType,
			"entity_id", item.EntityID,
			"remote_version", conflictErr.CurrentVersion)

		outcome := queue.Success(item.EntityID, conflictErr.CurrentVersion, conflictErr.CurrentValue)
		if err := r.queue.RecordAttemptResult(ctx, item.ID, outcome); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return r.queue.MarkConflicted(ctx, record)
}

// Resolve разрешает открытый конфликт сущности выбранной стороной
func (r *Resolver) Resolve(ctx context.Context, entityType, id string, choice models.Resolution) error {
	switch choice {
	case models.UseLocal:
		return r.queue.KeepLocal(ctx, entityType, id)
	case models.UseServer:
		return r.queue.TakeRemote(ctx, entityType, id)
	default:
		return fmt.Errorf("unknown resolution %q", choice)
	}
}

// ResolveAll разрешает все открытые конфликты одной стороной
func (r *Resolver) ResolveAll(ctx context.Context, choice models.Resolution) (int, error) {
	records, err := r.store.ListConflicts(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, rec := range records {
		if err := r.Resolve(ctx, rec.EntityType, rec.EntityID, choice); err != nil {
			return n, fmt.Errorf("failed to resolve %s/%s: %w", rec.EntityType, rec.EntityID, err)
		}
		n++
	}
	return n, nil
}

// List returns all open conflicts
func (r *Resolver) List(ctx context.Context) ([]*models.ConflictRecord, error) {
	return r.store.ListConflicts(ctx)
}

// Get returns the open conflict of an entity
func (r *Resolver) Get(ctx context.Context, entityType, id string) (*models.ConflictRecord, error) {
	return r.store.GetConflict(ctx, entityType, id)
}
