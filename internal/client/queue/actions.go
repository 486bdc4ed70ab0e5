package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/offsync/internal/client/storage"
	"github.com/iudanet/offsync/internal/models"
)

// Retry возвращает упавший элемент в очередь с обнулением счетчика попыток
func (m *Manager) Retry(ctx context.Context, id uint64) error {
	ctx = storage.WithoutQuota(ctx)
	m.mu.Lock()
	err := m.retryLocked(ctx, id)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.changed()
	return nil
}

func (m *Manager) retryLocked(ctx context.Context, id uint64) error {
	item, err := m.store.GetQueueItem(ctx, id)
	if err != nil {
		return err
	}
	if item.IsConflicted() {
		return fmt.Errorf("item %d: %w", id, ErrConflicted)
	}
	if item.Status != models.QueueStatusFailed {
		return fmt.Errorf("item %d: %w", id, ErrNotFailed)
	}

	status := models.QueueStatusPending
	retryCount := 0
	kind := models.ErrorKindNone
	msg := ""
	next := m.now().UTC()
	return m.store.UpdateQueueItem(ctx, id, models.QueueItemPatch{
		Status:           &status,
		RetryCount:       &retryCount,
		LastError:        &kind,
		LastErrorMessage: &msg,
		NextAttemptAt:    &next,
	})
}

// RetryAllFailed возвращает в очередь все упавшие элементы, кроме конфликтных.
// Возвращает количество перезапущенных элементов.
func (m *Manager) RetryAllFailed(ctx context.Context) (int, error) {
	ctx = storage.WithoutQuota(ctx)
	m.mu.Lock()
	n, err := m.forEachFailed(ctx, m.retryLocked)
	m.mu.Unlock()

	if n > 0 {
		m.logger.Info("Failed queue items scheduled for retry", "count", n)
		m.changed()
	}
	return n, err
}

// Discard удаляет элемент из очереди и пересчитывает локальное значение сущности
// из последнего подтвержденного значения и оставшихся мутаций.
func (m *Manager) Discard(ctx context.Context, id uint64) error {
	ctx = storage.WithoutQuota(ctx)
	m.mu.Lock()
	err := m.discardLocked(ctx, id)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.changed()
	return nil
}

func (m *Manager) discardLocked(ctx context.Context, id uint64) error {
	item, err := m.store.GetQueueItem(ctx, id)
	if err != nil {
		return err
	}

	if err := m.store.RemoveQueueItem(ctx, id); err != nil {
		return err
	}
	if item.IsConflicted() {
		if err := m.store.DeleteConflict(ctx, item.EntityType, item.EntityID); err != nil {
			return err
		}
	}

	m.logger.Info("Queue item discarded",
		"queue_id", id, "entity_type", item.EntityType, "entity_id", item.EntityID, "operation", item.Operation)

	return m.replayEntity(ctx, item.Key())
}

// DiscardAllFailed удаляет все упавшие элементы, кроме конфликтных
func (m *Manager) DiscardAllFailed(ctx context.Context) (int, error) {
	ctx = storage.WithoutQuota(ctx)
	m.mu.Lock()
	n, err := m.forEachFailed(ctx, m.discardLocked)
	m.mu.Unlock()

	if n > 0 {
		m.changed()
	}
	return n, err
}

func (m *Manager) forEachFailed(ctx context.Context, fn func(context.Context, uint64) error) (int, error) {
	failed := models.QueueStatusFailed
	items, err := m.store.ListQueue(ctx, &failed)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, item := range items {
		if item.IsConflicted() {
			continue
		}
		if err := fn(ctx, item.ID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// replayEntity пересчитывает кешированное значение: подтвержденные данные
// плюс оставшиеся мутации по порядку. Никогда не синхронизированная сущность
// без мутаций удаляется из кеша.
func (m *Manager) replayEntity(ctx context.Context, key models.EntityKey) error {
	entity, err := m.store.GetEntity(ctx, key.Type, key.ID)
	if errors.Is(err, storage.ErrEntryNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	items, err := m.entityItems(ctx, key)
	if err != nil {
		return err
	}

	if len(items) == 0 && entity.BaseVersion == 0 {
		return m.store.DeleteEntity(ctx, key.Type, key.ID)
	}

	entity.Data = entity.SyncedData
	entity.Deleted = false
	for _, item := range items {
		if err := applyOptimistic(entity, item); err != nil {
			return err
		}
	}
	entity.Dirty = len(items) > 0
	entity.UpdatedAt = m.now().UTC()

	return m.store.PutEntity(ctx, entity)
}

// MarkConflicted сохраняет запись о конфликте и переводит элемент в failed
// с LastError=conflict, не расходуя попытки. Если у сущности уже есть открытый
// конфликт, возвращается он и ничего не меняется.
func (m *Manager) MarkConflicted(ctx context.Context, record *models.ConflictRecord) (*models.ConflictRecord, error) {
	ctx = storage.WithoutQuota(ctx)
	m.mu.Lock()
	result, created, err := m.markConflictedLocked(ctx, record)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if created {
		m.changed()
	}
	return result, nil
}

func (m *Manager) markConflictedLocked(ctx context.Context, record *models.ConflictRecord) (*models.ConflictRecord, bool, error) {
	existing, err := m.store.GetConflict(ctx, record.EntityType, record.EntityID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, storage.ErrConflictNotFound) {
		return nil, false, err
	}

	if err := m.store.SaveConflict(ctx, record); err != nil {
		return nil, false, err
	}

	status := models.QueueStatusFailed
	kind := models.ErrorKindConflict
	msg := fmt.Sprintf("server version %d differs from base version", record.RemoteVersion)
	err = m.store.UpdateQueueItem(ctx, record.QueueItemID, models.QueueItemPatch{
		Status:           &status,
		LastError:        &kind,
		LastErrorMessage: &msg,
	})
	if err != nil {
		_ = m.store.DeleteConflict(ctx, record.EntityType, record.EntityID)
		return nil, false, err
	}

	m.logger.Warn("Conflict detected",
		"entity_type", record.EntityType,
		"entity_id", record.EntityID,
		"queue_id", record.QueueItemID,
		"remote_version", record.RemoteVersion)
	return record, true, nil
}

// KeepLocal разрешает конфликт в пользу локального значения: конфликтный элемент
// пересчитывается поверх серверной версии и возвращается в очередь на своем месте.
func (m *Manager) KeepLocal(ctx context.Context, entityType, id string) error {
	ctx = storage.WithoutQuota(ctx)
	m.mu.Lock()
	err := m.keepLocalLocked(ctx, entityType, id)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.changed()
	return nil
}

func (m *Manager) keepLocalLocked(ctx context.Context, entityType, id string) error {
	record, err := m.store.GetConflict(ctx, entityType, id)
	if err != nil {
		return err
	}

	item, err := m.store.GetQueueItem(ctx, record.QueueItemID)
	if errors.Is(err, storage.ErrQueueItemNotFound) {
		return m.store.DeleteConflict(ctx, entityType, id)
	}
	if err != nil {
		return err
	}

	rest, err := m.successors(ctx, item)
	if err != nil {
		return err
	}
	if err := m.rebase(ctx, rest, item.BaseVersion, record.RemoteVersion); err != nil {
		return err
	}

	op := item.Operation
	var payload []byte
	if op != models.OperationDelete {
		// Полное локальное значение поверх серверного; create становится update,
		// т.к. сущность на сервере уже существует
		if payload, err = models.ReplacementPatch(record.RemoteValue, record.LocalValue); err != nil {
			return err
		}
		if op == models.OperationCreate {
			op = models.OperationUpdate
		}
	}

	status := models.QueueStatusPending
	retryCount := 0
	kind := models.ErrorKindNone
	msg := ""
	next := m.now().UTC()
	remoteVersion := record.RemoteVersion
	if err := m.store.UpdateQueueItem(ctx, item.ID, models.QueueItemPatch{
		Status:           &status,
		RetryCount:       &retryCount,
		LastError:        &kind,
		LastErrorMessage: &msg,
		NextAttemptAt:    &next,
		BaseVersion:      &remoteVersion,
		Operation:        &op,
		Payload:          payload,
	}); err != nil {
		return err
	}

	entity, err := m.store.GetEntity(ctx, entityType, id)
	if err != nil && !errors.Is(err, storage.ErrEntryNotFound) {
		return err
	}
	if entity != nil {
		entity.SyncedData = record.RemoteValue
		entity.BaseVersion = record.RemoteVersion
		entity.UpdatedAt = m.now().UTC()
		if err := m.store.PutEntity(ctx, entity); err != nil {
			return err
		}
	}

	m.logger.Info("Conflict resolved",
		"entity_type", entityType, "entity_id", id, "resolution", models.UseLocal, "base_version", record.RemoteVersion)
	return m.store.DeleteConflict(ctx, entityType, id)
}

// TakeRemote разрешает конфликт в пользу сервера: все мутации сущности удаляются,
// кеш перезаписывается серверным значением (или удаляется, если на сервере его нет).
func (m *Manager) TakeRemote(ctx context.Context, entityType, id string) error {
	ctx = storage.WithoutQuota(ctx)
	m.mu.Lock()
	err := m.takeRemoteLocked(ctx, entityType, id)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.changed()
	return nil
}

func (m *Manager) takeRemoteLocked(ctx context.Context, entityType, id string) error {
	record, err := m.store.GetConflict(ctx, entityType, id)
	if err != nil {
		return err
	}

	items, err := m.entityItems(ctx, record.Key())
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := m.store.RemoveQueueItem(ctx, item.ID); err != nil {
			return err
		}
	}

	if len(record.RemoteValue) == 0 {
		if err := m.store.DeleteEntity(ctx, entityType, id); err != nil {
			return err
		}
	} else {
		err := m.store.PutEntity(ctx, &models.CachedEntity{
			EntityType:  entityType,
			EntityID:    id,
			Data:        record.RemoteValue,
			SyncedData:  record.RemoteValue,
			BaseVersion: record.RemoteVersion,
			UpdatedAt:   m.now().UTC(),
		})
		if err != nil {
			return err
		}
	}

	m.logger.Info("Conflict resolved",
		"entity_type", entityType, "entity_id", id, "resolution", models.UseServer,
		"version", record.RemoteVersion, "discarded", len(items))
	return m.store.DeleteConflict(ctx, entityType, id)
}
