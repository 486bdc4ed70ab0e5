// Package cli implements the offsync command line client on top of the
// sync engine: local mutations, queue inspection and conflict resolution.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/iudanet/offsync/internal/client/api"
	"github.com/iudanet/offsync/internal/client/conflict"
	"github.com/iudanet/offsync/internal/client/connectivity"
	"github.com/iudanet/offsync/internal/client/iocli"
	"github.com/iudanet/offsync/internal/client/queue"
	"github.com/iudanet/offsync/internal/client/storage/boltdb"
	clientsync "github.com/iudanet/offsync/internal/client/sync"
	"github.com/iudanet/offsync/internal/config"
	"github.com/iudanet/offsync/internal/crypto"
)

// PassphraseEnv переменная окружения с паролем шифрования кеша
const PassphraseEnv = "OFFSYNC_PASSPHRASE"

// Cli держит собранный движок синхронизации для одной команды
type Cli struct {
	io       iocli.IO
	logger   *slog.Logger
	store    *boltdb.Storage
	queue    *queue.Manager
	resolver *conflict.Resolver
	sync     *clientsync.Orchestrator
	monitor  *connectivity.Monitor
	cfg      *config.Config
}

// Open открывает локальный кеш и собирает движок. offline принудительно
// переводит монитор в offline независимо от файла статуса.
func Open(ctx context.Context, cfg *config.Config, io iocli.IO, logger *slog.Logger, offline bool) (*Cli, error) {
	var opts []boltdb.Option
	if cfg.Client.CacheQuota > 0 {
		opts = append(opts, boltdb.WithMaxSize(cfg.Client.CacheQuota))
	}

	store, err := boltdb.New(ctx, cfg.Client.DBPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open local cache: %w", err)
	}

	if cfg.Client.Encrypt {
		if err := unlock(ctx, store, io); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	clientOpts := []api.Option{api.WithTimeout(cfg.Client.Sync.RemoteTimeout * 2)}
	if cfg.Client.Token != "" {
		clientOpts = append(clientOpts, api.WithToken(cfg.Client.Token))
	}
	if !cfg.Client.VersionPreconditions {
		clientOpts = append(clientOpts, api.WithoutVersionPreconditions())
	}
	remote := api.NewClient(strings.TrimRight(cfg.Client.ServerURL, "/"), clientOpts...)

	online := !offline
	if online && cfg.Client.StatusFile != "" {
		online = readStatusFile(cfg.Client.StatusFile, logger)
	}
	monitor := connectivity.NewMonitor(online, logger)

	return assemble(ctx, cfg, io, logger, store, remote, monitor), nil
}

// assemble связывает компоненты движка вокруг открытого хранилища
func assemble(ctx context.Context, cfg *config.Config, io iocli.IO, logger *slog.Logger, store *boltdb.Storage, remote api.Remote, monitor *connectivity.Monitor) *Cli {
	qcfg := queue.Config{
		BaseDelay:     cfg.Client.Sync.BaseDelay,
		MaxDelay:      cfg.Client.Sync.MaxDelay,
		JitterPercent: cfg.Client.Sync.JitterPercent,
		MaxRetries:    cfg.Client.Sync.MaxRetries,
	}
	q := queue.NewManager(store, qcfg, logger)
	resolver := conflict.NewResolver(store, q, conflict.Options{
		AutoResolveIdentical: cfg.Client.AutoResolveIdentical,
	}, logger)

	orch := clientsync.NewOrchestrator(remote, q, resolver, store, monitor, nil, clientsync.Config{
		Interval:      cfg.Client.Sync.Interval,
		RemoteTimeout: cfg.Client.Sync.RemoteTimeout,
		Concurrency:   cfg.Client.Sync.Concurrency,
	}, logger)

	if last, err := store.GetLastSyncTime(ctx); err == nil && !last.IsZero() {
		orch.Status().SetLastSync(last)
	}
	if err := orch.Status().Refresh(ctx); err != nil {
		logger.Warn("Failed to read queue counters", "error", err)
	}

	return &Cli{
		io:       io,
		logger:   logger,
		store:    store,
		queue:    q,
		resolver: resolver,
		sync:     orch,
		monitor:  monitor,
		cfg:      cfg,
	}
}

// Close останавливает оркестратор и закрывает базу
func (c *Cli) Close() error {
	c.sync.Close()
	return c.store.Close()
}

// unlock выводит ключ шифрования кеша из пароля и соли, хранящейся в базе
func unlock(ctx context.Context, store *boltdb.Storage, io iocli.IO) error {
	passphrase := os.Getenv(PassphraseEnv)
	if passphrase == "" {
		var err error
		passphrase, err = io.ReadPassword("Cache passphrase: ")
		if err != nil {
			return fmt.Errorf("failed to read passphrase: %w", err)
		}
	}
	if passphrase == "" {
		return errors.New("passphrase cannot be empty")
	}

	salt, err := store.GetOrCreateSalt(ctx, crypto.SaltSize)
	if err != nil {
		return fmt.Errorf("failed to load cache salt: %w", err)
	}
	sealer, err := crypto.NewSealerFromPassphrase(passphrase, salt)
	if err != nil {
		return fmt.Errorf("failed to derive cache key: %w", err)
	}
	store.UseSealer(sealer)
	return nil
}

// readStatusFile возвращает начальное состояние сети из файла статуса.
// Нечитаемый файл считается offline.
func readStatusFile(path string, logger *slog.Logger) bool {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	if err != nil {
		logger.Warn("Failed to read connectivity status file", "path", path, "error", err)
		return false
	}
	online, err := connectivity.ParseStatus(string(content))
	if err != nil {
		logger.Warn("Invalid connectivity status file", "path", path, "error", err)
		return false
	}
	return online
}
