// Package sync drains the mutation queue against the remote authority.
//
// A cycle resets stale in-flight items, then repeatedly takes the next batch
// of ready items (one per entity) and sends them with bounded parallelism
// until nothing is ready. Only one cycle runs at a time; triggers that arrive
// during a cycle are coalesced into one more pass.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	stdsync "sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/offsync/internal/client/api"
	"github.com/iudanet/offsync/internal/client/conflict"
	"github.com/iudanet/offsync/internal/client/queue"
	"github.com/iudanet/offsync/internal/client/status"
	"github.com/iudanet/offsync/internal/client/storage"
	"github.com/iudanet/offsync/internal/models"
)

var (
	// ErrOffline возвращается SyncNow, когда сеть недоступна
	ErrOffline = errors.New("offline")

	// ErrSyncInProgress возвращается SyncNow, если цикл уже идет; запрос будет выполнен повторным проходом
	ErrSyncInProgress = errors.New("sync already in progress")
)

// Config настройки оркестратора
type Config struct {
	// Interval период фоновой синхронизации в режиме Run (0 - отключено)
	Interval time.Duration
	// RemoteTimeout ограничение на один вызов удаленного сервера
	RemoteTimeout time.Duration
	// Concurrency сколько сущностей отправляются параллельно
	Concurrency int
}

// DefaultConfig returns the default orchestrator configuration
func DefaultConfig() Config {
	return Config{
		Interval:      5 * time.Minute,
		RemoteTimeout: 15 * time.Second,
		Concurrency:   4,
	}
}

// Connectivity - то, что оркестратору нужно от монитора сети
type Connectivity interface {
	IsOnline() bool
	OnChange(fn func(online bool)) (unsubscribe func())
	SetOnlineHook(fn func())
}

// Result counts what happened during SyncNow
type Result struct {
	Synced    int // мутации, подтвержденные сервером
	Retried   int // транспортные ошибки, элемент ждет backoff или стал failed
	Failed    int // отклонены сервером (validation/not_found)
	Conflicts int // новые конфликты
	Passes    int // количество проходов, включая повторные
}

// tally потокобезопасный счетчик результатов одного вызова SyncNow
type tally struct {
	res Result
	mu  stdsync.Mutex
}

func (t *tally) add(fn func(*Result)) {
	t.mu.Lock()
	fn(&t.res)
	t.mu.Unlock()
}

// Orchestrator управляет циклами синхронизации
type Orchestrator struct {
	remote      api.Remote
	queue       *queue.Manager
	resolver    *conflict.Resolver
	store       storage.MetadataStorage
	monitor     Connectivity
	status      *status.Publisher
	logger      *slog.Logger
	now         func() time.Time
	baseCtx     context.Context
	cancel      context.CancelFunc
	cycleDone   chan struct{}
	unsubscribe func()
	cfg         Config
	wg          stdsync.WaitGroup
	mu          stdsync.Mutex
	syncing     bool
	rerun       bool
}

// NewOrchestrator wires the orchestrator to the connectivity monitor and the status publisher
func NewOrchestrator(
	remote api.Remote,
	q *queue.Manager,
	resolver *conflict.Resolver,
	store storage.MetadataStorage,
	monitor Connectivity,
	publisher *status.Publisher,
	cfg Config,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = status.NewPublisher(q, logger)
	}
	def := DefaultConfig()
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.RemoteTimeout <= 0 {
		cfg.RemoteTimeout = def.RemoteTimeout
	}

	o := &Orchestrator{
		remote:    remote,
		queue:     q,
		resolver:  resolver,
		store:     store,
		monitor:   monitor,
		status:    publisher,
		logger:    logger,
		now:       time.Now,
		baseCtx:   context.Background(),
		cycleDone: make(chan struct{}, 1),
		cfg:       cfg,
	}

	publisher.SetOnline(monitor.IsOnline())
	o.unsubscribe = monitor.OnChange(func(online bool) {
		publisher.SetOnline(online)
		if !online {
			o.Cancel()
		}
	})
	monitor.SetOnlineHook(o.Trigger)
	q.SetOnChange(func() {
		if err := publisher.Refresh(o.lifetime()); err != nil {
			logger.Warn("Failed to refresh sync status", "error", err)
		}
	})

	return o
}

// Status returns the publisher the orchestrator reports to
func (o *Orchestrator) Status() *status.Publisher {
	return o.status
}

// Close отписывается от монитора и дожидается запущенных Trigger циклов
func (o *Orchestrator) Close() {
	o.unsubscribe()
	o.monitor.SetOnlineHook(nil)
	o.Cancel()
	o.wg.Wait()
}

func (o *Orchestrator) lifetime() context.Context {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.baseCtx
}

// IsSyncing reports whether a cycle is running
func (o *Orchestrator) IsSyncing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.syncing
}

// Trigger запускает цикл в фоне. Если цикл уже идет, запрос объединяется с ним.
func (o *Orchestrator) Trigger() {
	if !o.monitor.IsOnline() {
		return
	}

	o.mu.Lock()
	if o.syncing {
		o.rerun = true
		o.mu.Unlock()
		return
	}
	ctx := o.baseCtx
	o.mu.Unlock()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		_, err := o.SyncNow(ctx)
		if err != nil && !errors.Is(err, ErrSyncInProgress) && !errors.Is(err, ErrOffline) && !errors.Is(err, context.Canceled) {
			o.logger.Error("Background sync failed", "error", err)
		}
	}()
}

// Cancel прерывает текущий цикл. Незавершенные вызовы не ожидаются,
// их результаты отбрасываются, элементы возвращаются в pending.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rerun = false
	if o.cancel != nil {
		o.cancel()
	}
}

// SyncNow выполняет цикл синхронизации и ждет его завершения.
func (o *Orchestrator) SyncNow(ctx context.Context) (*Result, error) {
	if !o.monitor.IsOnline() {
		return nil, ErrOffline
	}

	o.mu.Lock()
	if o.syncing {
		o.rerun = true
		o.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	cycleCtx, cancel := context.WithCancel(ctx)
	o.syncing = true
	o.cancel = cancel
	o.mu.Unlock()

	o.status.SetSyncing(true)
	o.logger.Info("Sync cycle started")

	t := &tally{}
	var err error
	for {
		t.add(func(r *Result) { r.Passes++ })
		err = o.cycle(cycleCtx, t)

		o.mu.Lock()
		again := o.rerun && err == nil
		o.rerun = false
		if !again {
			o.syncing = false
			o.cancel = nil
			o.mu.Unlock()
			break
		}
		o.mu.Unlock()
	}
	cancel()

	if err == nil {
		o.finish(ctx)
	}
	if rerr := o.status.Refresh(context.WithoutCancel(ctx)); rerr != nil {
		o.logger.Warn("Failed to refresh sync status", "error", rerr)
	}
	o.status.SetSyncing(false)

	select {
	case o.cycleDone <- struct{}{}:
	default:
	}

	res := t.res
	if err != nil {
		o.logger.Info("Sync cycle interrupted", "error", err, "synced", res.Synced)
		return &res, err
	}

	o.logger.Info("Sync cycle completed",
		"synced", res.Synced,
		"retried", res.Retried,
		"failed", res.Failed,
		"conflicts", res.Conflicts,
		"passes", res.Passes)
	return &res, nil
}

func (o *Orchestrator) finish(ctx context.Context) {
	now := o.now().UTC()
	if err := o.store.SaveLastSyncTime(ctx, now); err != nil {
		// Не прерываем синхронизацию из-за ошибки сохранения времени
		o.logger.Warn("Failed to save last sync time", "error", err)
	}
	o.status.SetLastSync(now)
}

// cycle один проход: отправляет готовые элементы, пока они есть
func (o *Orchestrator) cycle(ctx context.Context, t *tally) error {
	if _, err := o.queue.ResetInFlight(ctx); err != nil {
		return fmt.Errorf("failed to reset in-flight items: %w", err)
	}

	err := o.drain(ctx, t)
	if ctx.Err() != nil {
		// Отмененные попытки ничего не записывают, возвращаем их элементы в очередь
		if _, rerr := o.queue.ResetInFlight(context.WithoutCancel(ctx)); rerr != nil {
			o.logger.Error("Failed to reset abandoned items", "error", rerr)
		}
		return ctx.Err()
	}
	return err
}

func (o *Orchestrator) drain(ctx context.Context, t *tally) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := o.queue.NextBatch(ctx, o.cfg.Concurrency)
		if err != nil {
			return fmt.Errorf("failed to get next batch: %w", err)
		}
		if len(batch) == 0 {
			return nil
		}

		g := new(errgroup.Group)
		g.SetLimit(o.cfg.Concurrency)
		for _, item := range batch {
			g.Go(func() error {
				return o.process(ctx, item, t)
			})
		}

		done := make(chan error, 1)
		go func() { done <- g.Wait() }()

		select {
		case err := <-done:
			if err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// process отправляет одну мутацию и записывает результат
func (o *Orchestrator) process(ctx context.Context, item *models.QueueItem, t *tally) error {
	// цикл уже отменен: элемент остается pending и не отправляется
	if ctx.Err() != nil {
		return nil
	}
	if err := o.queue.MarkInFlight(ctx, item.ID); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to mark item %d in flight: %w", item.ID, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.cfg.RemoteTimeout)
	result, sendErr := o.send(callCtx, item)
	cancel()

	if ctx.Err() != nil {
		// Ответ сервера неизвестен: элемент возвращается в pending без расхода попытки.
		// Горутина может пережить cycle, поэтому in_flight снимает она сама.
		if err := o.queue.RecordAttemptResult(context.WithoutCancel(ctx), item.ID, queue.Abandoned()); err != nil {
			o.logger.Error("Failed to release abandoned item", "queue_id", item.ID, "error", err)
		}
		return nil
	}

	outcome, err := o.classify(ctx, item, result, sendErr, t)
	if err != nil {
		return err
	}
	if outcome == nil {
		return nil
	}
	if err := o.queue.RecordAttemptResult(ctx, item.ID, *outcome); err != nil {
		return fmt.Errorf("failed to record result of item %d: %w", item.ID, err)
	}
	return nil
}

func (o *Orchestrator) send(ctx context.Context, item *models.QueueItem) (*api.Result, error) {
	switch item.Operation {
	case models.OperationCreate:
		return o.remote.Create(ctx, item.EntityType, item.EntityID, item.Payload)
	case models.OperationUpdate:
		return o.remote.Update(ctx, item.EntityType, item.EntityID, item.Payload, item.BaseVersion)
	case models.OperationDelete:
		return nil, o.remote.Delete(ctx, item.EntityType, item.EntityID, item.BaseVersion)
	default:
		return nil, &api.ValidationError{Message: fmt.Sprintf("unknown operation %q", item.Operation)}
	}
}

// classify переводит ответ сервера в Outcome. nil означает, что результат уже
// записан резолвером конфликтов.
func (o *Orchestrator) classify(ctx context.Context, item *models.QueueItem, result *api.Result, err error, t *tally) (*queue.Outcome, error) {
	log := o.logger.With("queue_id", item.ID, "entity_type", item.EntityType, "entity_id", item.EntityID, "operation", item.Operation)

	var conflictErr *api.VersionConflictError
	switch {
	case err == nil:
		t.add(func(r *Result) { r.Synced++ })
		if result == nil {
			out := queue.Success(item.EntityID, 0, nil)
			return &out, nil
		}
		out := queue.Success(result.ID, result.Version, result.Data)
		return &out, nil

	case errors.As(err, &conflictErr):
		record, derr := o.resolver.Detect(ctx, item, conflictErr)
		switch {
		case errors.Is(derr, conflict.ErrSpuriousConflict):
			log.Warn("Spurious conflict, retrying", "error", derr)
			t.add(func(r *Result) { r.Retried++ })
			out := queue.Retryable(derr)
			return &out, nil
		case derr != nil:
			return nil, fmt.Errorf("failed to handle conflict: %w", derr)
		case record == nil:
			t.add(func(r *Result) { r.Synced++ })
		default:
			t.add(func(r *Result) { r.Conflicts++ })
		}
		return nil, nil

	case errors.Is(err, api.ErrValidation):
		t.add(func(r *Result) { r.Failed++ })
		out := queue.Rejected(err)
		return &out, nil

	case errors.Is(err, api.ErrNotFound):
		if item.Operation == models.OperationDelete {
			// Сущность уже удалена на сервере: цель мутации достигнута
			t.add(func(r *Result) { r.Synced++ })
			out := queue.Success(item.EntityID, 0, nil)
			return &out, nil
		}
		t.add(func(r *Result) { r.Failed++ })
		out := queue.NotFound(err)
		return &out, nil

	default:
		log.Debug("Transport failure", "error", err)
		t.add(func(r *Result) { r.Retried++ })
		out := queue.Retryable(err)
		return &out, nil
	}
}

// Pull загружает все серверные сущности типа в кеш, не трогая сущности с локальными изменениями.
func (o *Orchestrator) Pull(ctx context.Context, entityType string) (int, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.RemoteTimeout)
	defer cancel()

	results, err := o.remote.List(callCtx, entityType)
	if err != nil {
		return 0, fmt.Errorf("failed to list remote entities: %w", err)
	}

	entities := make([]*models.CachedEntity, 0, len(results))
	for _, r := range results {
		entities = append(entities, &models.CachedEntity{
			EntityType:  entityType,
			EntityID:    r.ID,
			Data:        r.Data,
			BaseVersion: r.Version,
		})
	}

	n, err := o.queue.ApplyRemote(ctx, entityType, entities)
	if err != nil {
		return n, fmt.Errorf("failed to apply remote entities: %w", err)
	}
	return n, nil
}

// Run - фоновый цикл демона: синхронизация при старте, по таймеру, по выходу
// в сеть и к моменту ближайшего повтора. Возвращается после отмены ctx.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.mu.Lock()
	o.baseCtx = ctx
	o.mu.Unlock()
	defer func() {
		o.Cancel()
		o.wg.Wait()
	}()

	var tick <-chan time.Time
	if o.cfg.Interval > 0 {
		ticker := time.NewTicker(o.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	retry := time.NewTimer(time.Hour)
	retry.Stop()
	defer retry.Stop()

	if err := o.status.Refresh(ctx); err != nil {
		o.logger.Warn("Failed to refresh sync status", "error", err)
	}
	o.Trigger()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			o.Trigger()
		case <-retry.C:
			o.Trigger()
		case <-o.cycleDone:
			o.armRetry(ctx, retry)
		}
	}
}

// armRetry взводит таймер на ближайший NextAttemptAt среди элементов в backoff
func (o *Orchestrator) armRetry(ctx context.Context, timer *time.Timer) {
	next, err := o.queue.NextAttemptAt(ctx)
	if err != nil {
		o.logger.Warn("Failed to compute next retry time", "error", err)
		return
	}
	if next.IsZero() {
		timer.Stop()
		return
	}

	d := next.Sub(o.now())
	if d < 0 {
		d = 0
	}
	timer.Reset(d)
	o.logger.Debug("Retry timer armed", "next_attempt_at", next)
}
