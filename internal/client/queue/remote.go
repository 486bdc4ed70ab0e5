package queue

import (
	"context"
	"errors"

	"github.com/iudanet/offsync/internal/client/storage"
	"github.com/iudanet/offsync/internal/models"
)

// ApplyRemote кладет в кеш серверные значения сущностей одного типа.
// Сущности с мутациями в очереди или открытым конфликтом не трогаются.
// Чистые закешированные сущности, которых больше нет на сервере, удаляются.
// Возвращает количество измененных записей кеша.
func (m *Manager) ApplyRemote(ctx context.Context, entityType string, remote []*models.CachedEntity) (int, error) {
	ctx = storage.WithoutQuota(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.store.ListQueue(ctx, nil)
	if err != nil {
		return 0, err
	}
	busy := make(map[models.EntityKey]bool, len(items))
	for _, item := range items {
		busy[item.Key()] = true
	}

	conflicts, err := m.store.ListConflicts(ctx)
	if err != nil {
		return 0, err
	}
	for _, c := range conflicts {
		busy[c.Key()] = true
	}

	changed := 0
	seen := make(map[string]bool, len(remote))
	for _, r := range remote {
		seen[r.EntityID] = true
		if busy[models.EntityKey{Type: entityType, ID: r.EntityID}] {
			continue
		}

		cached, err := m.store.GetEntity(ctx, entityType, r.EntityID)
		if err != nil && !errors.Is(err, storage.ErrEntryNotFound) {
			return changed, err
		}
		if cached != nil && cached.BaseVersion == r.BaseVersion && models.EqualData(cached.Data, r.Data) {
			continue
		}

		if err := m.store.PutEntity(ctx, &models.CachedEntity{
			EntityType:  entityType,
			EntityID:    r.EntityID,
			Data:        r.Data,
			SyncedData:  r.Data,
			BaseVersion: r.BaseVersion,
			UpdatedAt:   m.now().UTC(),
		}); err != nil {
			return changed, err
		}
		changed++
	}

	cached, err := m.store.ListEntitiesByType(ctx, entityType)
	if err != nil {
		return changed, err
	}
	for _, e := range cached {
		if seen[e.EntityID] || busy[e.Key()] || e.BaseVersion == 0 {
			continue
		}
		if err := m.store.DeleteEntity(ctx, entityType, e.EntityID); err != nil {
			return changed, err
		}
		changed++
	}

	if changed > 0 {
		m.logger.Info("Applied remote entities", "entity_type", entityType, "changed", changed, "remote", len(remote))
	}
	return changed, nil
}
