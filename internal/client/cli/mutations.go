package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/offsync/internal/client/storage"
	"github.com/iudanet/offsync/internal/models"
)

// runPut ставит в очередь create (сущность неизвестна или удалена локально)
// или update (сущность есть в кеше). Пустой id означает create с новым UUID.
func (c *Cli) runPut(ctx context.Context, entityType, id string, data string) error {
	payload := json.RawMessage(data)
	if !json.Valid(payload) {
		return fmt.Errorf("data is not valid JSON")
	}

	op := models.OperationCreate
	if id != "" {
		cached, err := c.store.GetEntity(ctx, entityType, id)
		switch {
		case err == nil && !cached.Deleted:
			op = models.OperationUpdate
		case err != nil && !errors.Is(err, storage.ErrEntryNotFound):
			return fmt.Errorf("failed to read cached entity: %w", err)
		}
	}

	qid, err := c.queue.Enqueue(ctx, entityType, id, op, payload, nil)
	if err != nil {
		if errors.Is(err, storage.ErrStorageExhausted) {
			return fmt.Errorf("local cache is full, change was not saved: %w", err)
		}
		return err
	}

	item, err := c.queue.Item(ctx, qid)
	if err != nil {
		return err
	}
	c.io.Printf("Queued %s %s/%s (queue #%d)\n", op, item.EntityType, item.EntityID, qid)
	return nil
}

func (c *Cli) runDelete(ctx context.Context, entityType, id string) error {
	qid, err := c.queue.Enqueue(ctx, entityType, id, models.OperationDelete, nil, nil)
	if err != nil {
		return err
	}
	c.io.Printf("Queued delete %s/%s (queue #%d)\n", entityType, id, qid)
	return nil
}
