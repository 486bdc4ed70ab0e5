// Package status aggregates queue, connectivity and cycle state into a
// Snapshot and pushes it to subscribers.
package status

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/offsync/internal/models"
)

// Counter считает элементы очереди по состояниям
type Counter interface {
	Counts(ctx context.Context) (models.QueueCounts, error)
}

// Publisher хранит текущий Snapshot и рассылает его подписчикам после каждого изменения.
type Publisher struct {
	counter Counter
	logger  *slog.Logger
	subs    map[uint64]func(models.Snapshot)
	snap    models.Snapshot
	nextID  uint64
	mu      sync.Mutex
	// emitMu сохраняет порядок рассылки: подписчик не увидит старый снимок после нового
	emitMu sync.Mutex
}

// NewPublisher creates a publisher. counter may be nil, then Refresh only re-emits.
func NewPublisher(counter Counter, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		counter: counter,
		logger:  logger,
		subs:    make(map[uint64]func(models.Snapshot)),
		snap:    models.Snapshot{State: models.SyncStateIdle},
	}
}

// Snapshot returns the current state
func (p *Publisher) Snapshot() models.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// Subscribe registers fn and returns a function that removes it.
// fn is called synchronously and must not block for long.
func (p *Publisher) Subscribe(fn func(models.Snapshot)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}
}

// Refresh пересчитывает счетчики по хранилищу и рассылает снимок
func (p *Publisher) Refresh(ctx context.Context) error {
	if p.counter == nil {
		p.update(func(*models.Snapshot) {})
		return nil
	}

	counts, err := p.counter.Counts(ctx)
	if err != nil {
		return err
	}

	p.update(func(s *models.Snapshot) {
		s.PendingCount = counts.Pending
		s.InFlightCount = counts.InFlight
		s.FailedCount = counts.Failed
		s.ConflictCount = counts.Conflicted
	})
	return nil
}

// SetOnline records the connectivity state
func (p *Publisher) SetOnline(online bool) {
	p.update(func(s *models.Snapshot) { s.IsOnline = online })
}

// SetSyncing records whether a sync cycle is running
func (p *Publisher) SetSyncing(syncing bool) {
	p.update(func(s *models.Snapshot) { s.IsSyncing = syncing })
}

// SetLastSync records the completion time of the last cycle
func (p *Publisher) SetLastSync(t time.Time) {
	p.update(func(s *models.Snapshot) { s.LastSyncAt = t })
}

func (p *Publisher) update(fn func(*models.Snapshot)) {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	fn(&p.snap)
	p.snap.State = deriveState(p.snap)
	snap := p.snap

	subs := make([]func(models.Snapshot), 0, len(p.subs))
	for id := uint64(0); id < p.nextID; id++ {
		if sub, ok := p.subs[id]; ok {
			subs = append(subs, sub)
		}
	}
	p.mu.Unlock()

	for _, sub := range subs {
		p.deliver(sub, snap)
	}
}

func (p *Publisher) deliver(fn func(models.Snapshot), snap models.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Status subscriber panicked", "panic", r)
		}
	}()
	fn(snap)
}

func deriveState(s models.Snapshot) models.SyncState {
	switch {
	case s.IsSyncing:
		return models.SyncStateSyncing
	case s.NeedsAttention():
		return models.SyncStateIdleWithFailures
	default:
		return models.SyncStateIdle
	}
}
