package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	clientsync "github.com/iudanet/offsync/internal/client/sync"
	"github.com/iudanet/offsync/internal/models"
)

// runStatus печатает состояние синхронизации. При наличии упавших изменений
// предлагает повторить их (если prompt включен).
func (c *Cli) runStatus(ctx context.Context, prompt bool) error {
	if err := c.sync.Status().Refresh(ctx); err != nil {
		return err
	}
	snap := c.sync.Status().Snapshot()
	c.printSnapshot(snap)
	if err := c.printCacheSize(ctx); err != nil {
		return err
	}

	if snap.ConflictCount > 0 {
		c.io.Printf("%d conflict(s) need a decision, see 'offsync conflicts'.\n", snap.ConflictCount)
	}
	if snap.FailedCount == 0 {
		return nil
	}

	failed := snap.FailedCount
	if !prompt {
		c.io.Printf("%d changes failed to sync. Run 'offsync retry --all' to retry.\n", failed)
		return nil
	}

	answer, err := c.io.ReadInput(plural(failed, "change") + " failed to sync — retry? [y/N]: ")
	if err != nil {
		return err
	}
	if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
		return nil
	}

	n, err := c.queue.RetryAllFailed(ctx)
	if err != nil {
		return err
	}
	c.io.Printf("%d change(s) scheduled for retry\n", n)

	if !c.monitor.IsOnline() {
		return nil
	}
	return c.runSync(ctx)
}

func (c *Cli) printSnapshot(snap models.Snapshot) {
	network := "offline"
	if snap.IsOnline {
		network = "online"
	}

	c.io.Printf("State:     %s\n", snap.State)
	c.io.Printf("Network:   %s\n", network)
	c.io.Printf("Pending:   %d\n", snap.PendingCount)
	if snap.InFlightCount > 0 {
		c.io.Printf("In flight: %d\n", snap.InFlightCount)
	}
	c.io.Printf("Failed:    %d\n", snap.FailedCount)
	c.io.Printf("Conflicts: %d\n", snap.ConflictCount)
	if snap.LastSyncAt.IsZero() {
		c.io.Println("Last sync: never")
	} else {
		c.io.Printf("Last sync: %s\n", snap.LastSyncAt.Local().Format(time.RFC3339))
	}
}

// printCacheSize печатает размер локального кеша и квоту, если она задана
func (c *Cli) printCacheSize(ctx context.Context) error {
	size, err := c.store.EstimateSize(ctx)
	if err != nil {
		return fmt.Errorf("failed to estimate cache size: %w", err)
	}
	if quota := c.cfg.Client.CacheQuota; quota > 0 {
		c.io.Printf("Cache:     %s / %s\n", humanize.IBytes(uint64(size)), humanize.IBytes(uint64(quota)))
		return nil
	}
	c.io.Printf("Cache:     %s\n", humanize.IBytes(uint64(size)))
	return nil
}

func (c *Cli) runSync(ctx context.Context) error {
	res, err := c.sync.SyncNow(ctx)
	switch {
	case errors.Is(err, clientsync.ErrOffline):
		c.io.Println("Offline: changes stay queued until the network is back.")
		return nil
	case err != nil:
		return err
	}

	c.io.Printf("Synced: %d, retrying: %d, failed: %d, conflicts: %d\n",
		res.Synced, res.Retried, res.Failed, res.Conflicts)

	snap := c.sync.Status().Snapshot()
	if snap.FailedCount > 0 {
		c.io.Printf("%s failed to sync, see 'offsync status'.\n", plural(snap.FailedCount, "change"))
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
