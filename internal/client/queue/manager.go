// Package queue implements the persistent mutation queue: enqueueing with
// optimistic local apply, per-entity ordered batching and attempt bookkeeping.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/offsync/internal/client/storage"
	"github.com/iudanet/offsync/internal/models"
	"github.com/iudanet/offsync/internal/validation"
)

var (
	// ErrInvalidMutation indicates that the mutation was rejected locally and nothing was queued
	ErrInvalidMutation = errors.New("invalid mutation")

	// ErrConflicted indicates that the item is parked behind an open conflict
	ErrConflicted = errors.New("queue item is in conflict, resolve it instead")

	// ErrNotFailed indicates that a manual retry was requested for an item that has not failed
	ErrNotFailed = errors.New("queue item has not failed")
)

// Store - часть локального хранилища, с которой работает очередь
type Store interface {
	storage.EntityStorage
	storage.QueueStorage
	storage.ConflictStorage
}

// Manager управляет очередью мутаций.
// Все последовательности чтение-изменение-запись выполняются под одним мьютексом,
// поэтому записи по одному ключу не перемешиваются.
type Manager struct {
	store    Store
	logger   *slog.Logger
	backoff  BackoffFunc
	now      func() time.Time
	newID    func() string
	onChange func()
	cfg      Config
	mu       sync.Mutex
}

// NewManager creates a new queue manager
func NewManager(store Store, cfg Config, logger *slog.Logger) *Manager {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultConfig().MaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultConfig().BaseDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:   store,
		cfg:     cfg,
		logger:  logger,
		backoff: NewBackoff(cfg),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// SetOnChange регистрирует callback, вызываемый после каждого изменения очереди
// или кеша. Вызывается вне мьютекса менеджера.
func (m *Manager) SetOnChange(fn func()) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Config returns the effective queue configuration
func (m *Manager) Config() Config {
	return m.cfg
}

func (m *Manager) changed() {
	m.mu.Lock()
	fn := m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Enqueue сохраняет мутацию и оптимистично применяет ее к кешу.
//
// Для create без id генерируется UUID. baseVersion по умолчанию равна
// подтвержденной версии из кеша. Если хранилище переполнено, возвращается
// ошибка, оборачивающая storage.ErrStorageExhausted, и ничего не сохраняется.
func (m *Manager) Enqueue(ctx context.Context, entityType, id string, op models.Operation, payload json.RawMessage, baseVersion *int64) (uint64, error) {
	if err := validation.ValidateEntityType(entityType); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidMutation, err)
	}
	if op == models.OperationCreate && id == "" {
		id = m.newID()
	}
	if err := validation.ValidateEntityID(id); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidMutation, err)
	}
	switch op {
	case models.OperationCreate, models.OperationUpdate:
		if len(payload) == 0 || !json.Valid(payload) {
			return 0, fmt.Errorf("%w: payload must be a valid JSON document", ErrInvalidMutation)
		}
	case models.OperationDelete:
		payload = nil
	default:
		return 0, fmt.Errorf("%w: unknown operation %q", ErrInvalidMutation, op)
	}

	m.mu.Lock()
	qid, err := m.enqueueLocked(ctx, entityType, id, op, payload, baseVersion)
	m.mu.Unlock()
	if err != nil {
		return 0, err
	}

	m.logger.Info("Mutation queued",
		"queue_id", qid,
		"entity_type", entityType,
		"entity_id", id,
		"operation", op)
	m.changed()

	return qid, nil
}

func (m *Manager) enqueueLocked(ctx context.Context, entityType, id string, op models.Operation, payload json.RawMessage, baseVersion *int64) (uint64, error) {
	cached, err := m.store.GetEntity(ctx, entityType, id)
	if err != nil && !errors.Is(err, storage.ErrEntryNotFound) {
		return 0, fmt.Errorf("failed to read cached entity: %w", err)
	}

	switch {
	case op == models.OperationCreate && cached != nil && !cached.Deleted:
		return 0, fmt.Errorf("%w: entity %s/%s already exists", ErrInvalidMutation, entityType, id)
	case op == models.OperationDelete && cached != nil && cached.Deleted:
		return 0, fmt.Errorf("%w: entity %s/%s is already deleted", ErrInvalidMutation, entityType, id)
	}
	// update поверх локального удаления допустим: после подтверждения delete
	// сервер ответит not_found и элемент станет failed, а не пропадет молча

	now := m.now().UTC()
	item := &models.QueueItem{
		EntityType:    entityType,
		EntityID:      id,
		Operation:     op,
		Payload:       payload,
		Status:        models.QueueStatusPending,
		CreatedAt:     now,
		NextAttemptAt: now,
	}
	switch {
	case baseVersion != nil:
		item.BaseVersion = *baseVersion
	case cached != nil:
		item.BaseVersion = cached.BaseVersion
	}

	qid, err := m.store.Enqueue(ctx, item)
	if err != nil {
		return 0, err
	}

	entity := cached
	if entity == nil {
		entity = &models.CachedEntity{EntityType: entityType, EntityID: id}
	}
	if err := applyOptimistic(entity, item); err != nil {
		_ = m.store.RemoveQueueItem(ctx, qid)
		return 0, fmt.Errorf("%w: %w", ErrInvalidMutation, err)
	}
	entity.Dirty = true
	entity.UpdatedAt = now

	if err := m.store.PutEntity(ctx, entity); err != nil {
		// Кеш не обновился - откатываем элемент очереди
		if rmErr := m.store.RemoveQueueItem(ctx, qid); rmErr != nil {
			m.logger.Error("Failed to roll back queue item", "queue_id", qid, "error", rmErr)
		}
		return 0, err
	}

	return qid, nil
}

// applyOptimistic применяет мутацию к локальному представлению сущности
func applyOptimistic(entity *models.CachedEntity, item *models.QueueItem) error {
	switch item.Operation {
	case models.OperationCreate:
		entity.Data = item.Payload
		entity.Deleted = false
	case models.OperationUpdate:
		if entity.Deleted {
			// надгробие остается надгробием до ответа сервера
			return nil
		}
		merged, err := models.MergeData(entity.Data, item.Payload)
		if err != nil {
			return err
		}
		entity.Data = merged
	case models.OperationDelete:
		entity.Deleted = true
	}
	return nil
}

// Item returns a queue item by id
func (m *Manager) Item(ctx context.Context, id uint64) (*models.QueueItem, error) {
	return m.store.GetQueueItem(ctx, id)
}

// List returns all queue items in insertion order
func (m *Manager) List(ctx context.Context) ([]*models.QueueItem, error) {
	return m.store.ListQueue(ctx, nil)
}

// Counts aggregates queue items by state
func (m *Manager) Counts(ctx context.Context) (models.QueueCounts, error) {
	items, err := m.store.ListQueue(ctx, nil)
	if err != nil {
		return models.QueueCounts{}, err
	}

	var c models.QueueCounts
	for _, item := range items {
		switch {
		case item.IsConflicted():
			c.Conflicted++
		case item.Status == models.QueueStatusFailed:
			c.Failed++
		case item.Status == models.QueueStatusInFlight:
			c.InFlight++
		default:
			c.Pending++
		}
	}
	return c, nil
}

// NextBatch возвращает до limit готовых к отправке элементов, не более одного
// на сущность. Рассматривается только головной элемент каждой сущности: если он
// в полете, упал, ждет backoff или у сущности открыт конфликт, сущность пропускается.
func (m *Manager) NextBatch(ctx context.Context, limit int) ([]*models.QueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.store.ListQueue(ctx, nil)
	if err != nil {
		return nil, err
	}
	conflicts, err := m.store.ListConflicts(ctx)
	if err != nil {
		return nil, err
	}
	blocked := make(map[models.EntityKey]bool, len(conflicts))
	for _, c := range conflicts {
		blocked[c.Key()] = true
	}

	now := m.now()
	seen := make(map[models.EntityKey]bool)
	var batch []*models.QueueItem
	for _, item := range items {
		key := item.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		if blocked[key] || item.Status != models.QueueStatusPending || item.NextAttemptAt.After(now) {
			continue
		}

		batch = append(batch, item)
		if limit > 0 && len(batch) >= limit {
			break
		}
	}

	return batch, nil
}

// NextAttemptAt returns the earliest retry time among pending items that are
// waiting for backoff, or zero time if none is waiting.
func (m *Manager) NextAttemptAt(ctx context.Context) (time.Time, error) {
	pending := models.QueueStatusPending
	items, err := m.store.ListQueue(ctx, &pending)
	if err != nil {
		return time.Time{}, err
	}

	now := m.now()
	var earliest time.Time
	for _, item := range items {
		if !item.NextAttemptAt.After(now) {
			continue
		}
		if earliest.IsZero() || item.NextAttemptAt.Before(earliest) {
			earliest = item.NextAttemptAt
		}
	}
	return earliest, nil
}

// MarkInFlight помечает элемент как отправляемый
func (m *Manager) MarkInFlight(ctx context.Context, id uint64) error {
	ctx = storage.WithoutQuota(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()

	status := models.QueueStatusInFlight
	return m.store.UpdateQueueItem(ctx, id, models.QueueItemPatch{Status: &status})
}

// ResetInFlight возвращает все элементы in_flight в pending без расхода попыток.
// Используется при старте цикла: такие элементы остались от прерванного цикла или падения процесса.
func (m *Manager) ResetInFlight(ctx context.Context) (int, error) {
	ctx = storage.WithoutQuota(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()

	inFlight := models.QueueStatusInFlight
	items, err := m.store.ListQueue(ctx, &inFlight)
	if err != nil {
		return 0, err
	}

	pending := models.QueueStatusPending
	for _, item := range items {
		if err := m.store.UpdateQueueItem(ctx, item.ID, models.QueueItemPatch{Status: &pending}); err != nil {
			return 0, err
		}
	}
	if len(items) > 0 {
		m.logger.Info("Reset in-flight queue items", "count", len(items))
	}
	return len(items), nil
}

// RecordAttemptResult фиксирует результат попытки отправки элемента.
// Повторная запись успеха для уже удаленного элемента ничего не делает.
func (m *Manager) RecordAttemptResult(ctx context.Context, id uint64, outcome Outcome) error {
	// результат сервера записывается всегда, даже если кеш упёрся в квоту
	ctx = storage.WithoutQuota(ctx)
	m.mu.Lock()
	err := m.recordLocked(ctx, id, outcome)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.changed()
	return nil
}

func (m *Manager) recordLocked(ctx context.Context, id uint64, outcome Outcome) error {
	item, err := m.store.GetQueueItem(ctx, id)
	if errors.Is(err, storage.ErrQueueItemNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	switch outcome.Kind {
	case OutcomeSuccess:
		return m.applySuccess(ctx, item, outcome)

	case OutcomeRetryable:
		retryCount := item.RetryCount + 1
		kind := outcome.errorKind()
		msg := outcome.message()
		patch := models.QueueItemPatch{RetryCount: &retryCount, LastError: &kind, LastErrorMessage: &msg}

		if retryCount >= m.cfg.MaxRetries {
			status := models.QueueStatusFailed
			patch.Status = &status
			m.logger.Warn("Queue item failed after retries",
				"queue_id", id, "entity_type", item.EntityType, "entity_id", item.EntityID,
				"retry_count", retryCount, "error", msg)
		} else {
			status := models.QueueStatusPending
			next := m.now().Add(m.backoff(retryCount)).UTC()
			patch.Status = &status
			patch.NextAttemptAt = &next
			m.logger.Info("Queue item will be retried",
				"queue_id", id, "retry_count", retryCount, "next_attempt_at", next, "error", msg)
		}
		return m.store.UpdateQueueItem(ctx, id, patch)

	case OutcomeValidation, OutcomeNotFound:
		status := models.QueueStatusFailed
		kind := outcome.errorKind()
		msg := outcome.message()
		m.logger.Warn("Queue item rejected",
			"queue_id", id, "entity_type", item.EntityType, "entity_id", item.EntityID,
			"reason", kind, "error", msg)
		return m.store.UpdateQueueItem(ctx, id, models.QueueItemPatch{Status: &status, LastError: &kind, LastErrorMessage: &msg})

	case OutcomeAbandoned:
		status := models.QueueStatusPending
		return m.store.UpdateQueueItem(ctx, id, models.QueueItemPatch{Status: &status})

	default:
		return fmt.Errorf("unknown outcome kind %d", outcome.Kind)
	}
}

// entityItems returns the queue items of one entity in insertion order
func (m *Manager) entityItems(ctx context.Context, key models.EntityKey) ([]*models.QueueItem, error) {
	all, err := m.store.ListQueue(ctx, nil)
	if err != nil {
		return nil, err
	}
	var items []*models.QueueItem
	for _, item := range all {
		if item.Key() == key {
			items = append(items, item)
		}
	}
	return items, nil
}

// successors returns the entity's items queued after item
func (m *Manager) successors(ctx context.Context, item *models.QueueItem) ([]*models.QueueItem, error) {
	items, err := m.entityItems(ctx, item.Key())
	if err != nil {
		return nil, err
	}
	var out []*models.QueueItem
	for _, other := range items {
		if other.ID > item.ID {
			out = append(out, other)
		}
	}
	return out, nil
}

// rebase переводит последующие элементы, вычисленные от той же базовой версии, на newBase
func (m *Manager) rebase(ctx context.Context, items []*models.QueueItem, oldBase, newBase int64) error {
	for _, other := range items {
		if other.BaseVersion != oldBase {
			continue
		}
		if err := m.store.UpdateQueueItem(ctx, other.ID, models.QueueItemPatch{BaseVersion: &newBase}); err != nil {
			return err
		}
		other.BaseVersion = newBase
	}
	return nil
}

func (m *Manager) applySuccess(ctx context.Context, item *models.QueueItem, outcome Outcome) error {
	rest, err := m.successors(ctx, item)
	if err != nil {
		return err
	}

	entity, err := m.store.GetEntity(ctx, item.EntityType, item.EntityID)
	if errors.Is(err, storage.ErrEntryNotFound) {
		entity = &models.CachedEntity{EntityType: item.EntityType, EntityID: item.EntityID, Data: item.Payload}
	} else if err != nil {
		return err
	}

	// Сервер присвоил свой id: переносим сущность и последующие мутации
	if item.Operation == models.OperationCreate && outcome.ServerID != "" && outcome.ServerID != item.EntityID {
		serverID := outcome.ServerID
		for _, other := range rest {
			if err := m.store.UpdateQueueItem(ctx, other.ID, models.QueueItemPatch{EntityID: &serverID}); err != nil {
				return err
			}
			other.EntityID = serverID
		}
		if err := m.store.DeleteEntity(ctx, item.EntityType, item.EntityID); err != nil {
			return err
		}
		m.logger.Info("Entity re-keyed to server id",
			"entity_type", item.EntityType, "local_id", item.EntityID, "server_id", serverID)
		entity.EntityID = serverID
	}

	var newVersion int64
	if item.Operation != models.OperationDelete {
		newVersion = outcome.Version
	}
	if err := m.rebase(ctx, rest, item.BaseVersion, newVersion); err != nil {
		return err
	}

	switch item.Operation {
	case models.OperationDelete:
		if len(rest) == 0 {
			if err := m.store.DeleteEntity(ctx, entity.EntityType, entity.EntityID); err != nil {
				return err
			}
			break
		}
		entity.SyncedData = nil
		entity.BaseVersion = 0
		entity.UpdatedAt = m.now().UTC()
		if err := m.store.PutEntity(ctx, entity); err != nil {
			return err
		}

	default:
		synced := outcome.Data
		if len(synced) == 0 {
			if synced, err = models.MergeData(entity.SyncedData, item.Payload); err != nil {
				return err
			}
		}
		entity.SyncedData = synced
		entity.BaseVersion = newVersion
		if len(rest) == 0 {
			// Больше нет неподтвержденных мутаций: кеш равен серверному значению
			entity.Data = synced
			entity.Dirty = false
			entity.Deleted = false
		}
		entity.UpdatedAt = m.now().UTC()
		if err := m.store.PutEntity(ctx, entity); err != nil {
			return err
		}
	}

	if err := m.store.RemoveQueueItem(ctx, item.ID); err != nil {
		return err
	}

	m.logger.Info("Mutation synced",
		"queue_id", item.ID,
		"entity_type", entity.EntityType,
		"entity_id", entity.EntityID,
		"operation", item.Operation,
		"version", newVersion)
	return nil
}
