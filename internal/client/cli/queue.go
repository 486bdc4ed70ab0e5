package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/iudanet/offsync/internal/models"
)

func (c *Cli) runQueue(ctx context.Context) error {
	items, err := c.queue.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list queue: %w", err)
	}
	if len(items) == 0 {
		c.io.Println("Queue is empty.")
		return nil
	}

	for _, item := range items {
		c.io.Printf("#%-5d %-9s %-6s %s/%s  base=v%d retries=%d",
			item.ID, item.Status, item.Operation, item.EntityType, item.EntityID, item.BaseVersion, item.RetryCount)
		if item.LastError != models.ErrorKindNone {
			c.io.Printf("  [%s] %s", item.LastError, item.LastErrorMessage)
		}
		c.io.Println()
	}
	return nil
}

// runRetry возвращает в очередь один упавший элемент или все сразу
func (c *Cli) runRetry(ctx context.Context, id string, all bool) error {
	if all {
		n, err := c.queue.RetryAllFailed(ctx)
		if err != nil {
			return err
		}
		c.io.Printf("%d change(s) scheduled for retry\n", n)
		return nil
	}

	qid, err := parseQueueID(id)
	if err != nil {
		return err
	}
	if err := c.queue.Retry(ctx, qid); err != nil {
		return err
	}
	c.io.Printf("Queue item #%d scheduled for retry\n", qid)
	return nil
}

func (c *Cli) runDiscard(ctx context.Context, id string, allFailed bool) error {
	if allFailed {
		n, err := c.queue.DiscardAllFailed(ctx)
		if err != nil {
			return err
		}
		c.io.Printf("%d failed change(s) discarded\n", n)
		return nil
	}

	qid, err := parseQueueID(id)
	if err != nil {
		return err
	}
	if err := c.queue.Discard(ctx, qid); err != nil {
		return err
	}
	c.io.Printf("Queue item #%d discarded\n", qid)
	return nil
}

func parseQueueID(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("queue item id is required")
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid queue item id %q", s)
	}
	return id, nil
}
