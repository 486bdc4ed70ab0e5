package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/offsync/internal/client/storage"
	"github.com/iudanet/offsync/internal/models"
)

func (c *Cli) runGet(ctx context.Context, entityType, id string) error {
	entity, err := c.store.GetEntity(ctx, entityType, id)
	if errors.Is(err, storage.ErrEntryNotFound) || (err == nil && entity.Deleted) {
		return fmt.Errorf("entity %s/%s not found in local cache", entityType, id)
	}
	if err != nil {
		return fmt.Errorf("failed to read entity: %w", err)
	}

	c.io.Printf("%s/%s\n", entity.EntityType, entity.EntityID)
	c.io.Printf("Version: %d%s\n", entity.BaseVersion, syncMark(entity))
	c.io.Printf("Updated: %s\n", entity.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	c.io.Println(string(entity.Data))
	return nil
}

func (c *Cli) runList(ctx context.Context, entityType string) error {
	entities, err := c.store.ListEntitiesByType(ctx, entityType)
	if err != nil {
		return fmt.Errorf("failed to list entities: %w", err)
	}

	shown := 0
	for _, e := range entities {
		if e.Deleted {
			continue
		}
		c.io.Printf("%-36s  v%-4d %s%s\n", e.EntityID, e.BaseVersion, string(e.Data), syncMark(e))
		shown++
	}

	if shown == 0 {
		c.io.Printf("No %s cached.\n", entityType)
		return nil
	}
	c.io.Printf("Total: %d\n", shown)
	return nil
}

func (c *Cli) runPull(ctx context.Context, entityTypes []string) error {
	for _, entityType := range entityTypes {
		n, err := c.sync.Pull(ctx, entityType)
		if err != nil {
			return fmt.Errorf("pull %s: %w", entityType, err)
		}
		c.io.Printf("Pulled %s: %d changed\n", entityType, n)
	}
	return nil
}

func syncMark(e *models.CachedEntity) string {
	if e.Dirty {
		return " (pending sync)"
	}
	return ""
}
