package cli

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iudanet/offsync/internal/models"
)

func (c *Cli) runConflicts(ctx context.Context) error {
	records, err := c.resolver.List(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		c.io.Println("No open conflicts.")
		return nil
	}

	for _, rec := range records {
		c.io.Printf("%s/%s (queue #%d, detected %s)\n",
			rec.EntityType, rec.EntityID, rec.QueueItemID, rec.DetectedAt.Local().Format(time.RFC3339))
		c.io.Printf("  local:       %s\n", valueOrDeleted(rec.LocalValue))
		c.io.Printf("  server v%-3d  %s\n", rec.RemoteVersion, valueOrDeleted(rec.RemoteValue))
		c.io.Printf("  last synced: %s\n", valueOrDeleted(rec.LastSyncedValue))
	}
	c.io.Printf("Total: %d. Resolve with 'offsync resolve <type> <id> local|server'.\n", len(records))
	return nil
}

func (c *Cli) runResolve(ctx context.Context, entityType, id, choice string) error {
	resolution, err := models.ParseResolution(choice)
	if err != nil {
		return err
	}
	if err := c.resolver.Resolve(ctx, entityType, id, resolution); err != nil {
		return err
	}
	c.io.Printf("Conflict on %s/%s resolved (%s)\n", entityType, id, resolution)
	return nil
}

func (c *Cli) runResolveAll(ctx context.Context, choice string) error {
	resolution, err := models.ParseResolution(choice)
	if err != nil {
		return err
	}
	n, err := c.resolver.ResolveAll(ctx, resolution)
	if err != nil {
		return err
	}
	c.io.Printf("%d conflict(s) resolved (%s)\n", n, resolution)
	return nil
}

func valueOrDeleted(v json.RawMessage) string {
	if len(v) == 0 || string(v) == "null" {
		return "<deleted>"
	}
	return string(v)
}
