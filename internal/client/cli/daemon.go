package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/offsync/internal/client/connectivity"
	"github.com/iudanet/offsync/internal/models"
)

// runDaemon держит движок запущенным до сигнала: фоновая синхронизация,
// слежение за файлом статуса сети и печать изменений состояния.
func (c *Cli) runDaemon(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var last models.Snapshot
	unsubscribe := c.sync.Status().Subscribe(func(s models.Snapshot) {
		if sameCounters(last, s) {
			return
		}
		prevFailed := last.FailedCount
		last = s
		c.io.Printf("[%s] pending=%d failed=%d conflicts=%d online=%t\n",
			s.State, s.PendingCount, s.FailedCount, s.ConflictCount, s.IsOnline)
		if s.FailedCount > 0 && s.FailedCount != prevFailed {
			c.io.Printf("%s failed to sync, run 'offsync retry --all'\n", plural(s.FailedCount, "change"))
		}
	})
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)
	if path := c.cfg.Client.StatusFile; path != "" {
		source := connectivity.NewFileSource(path, c.monitor, c.logger)
		g.Go(func() error { return source.Run(gctx) })
	}
	g.Go(func() error { return c.sync.Run(gctx) })

	c.logger.Info("Sync daemon started",
		"server", c.cfg.Client.ServerURL,
		"interval", c.cfg.Client.Sync.Interval,
		"status_file", c.cfg.Client.StatusFile,
	)
	err := g.Wait()
	c.logger.Info("Sync daemon stopped")
	return err
}

func sameCounters(a, b models.Snapshot) bool {
	return a.State == b.State &&
		a.PendingCount == b.PendingCount &&
		a.FailedCount == b.FailedCount &&
		a.ConflictCount == b.ConflictCount &&
		a.IsOnline == b.IsOnline
}
