// Package connectivity tracks whether the remote authority is believed to be
// reachable and notifies subscribers on transitions.
package connectivity

import (
	"log/slog"
	"sync"
)

// Monitor хранит текущее состояние сети и рассылает уведомления только
// при смене состояния (edge-triggered).
type Monitor struct {
	logger    *slog.Logger
	listeners map[uint64]func(online bool)
	hook      func()
	nextID    uint64
	mu        sync.Mutex
	// setMu сериализует Set целиком, чтобы подписчики видели переходы по порядку
	setMu  sync.Mutex
	online bool
}

// NewMonitor creates a Monitor with the given initial state
func NewMonitor(initial bool, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		online:    initial,
		listeners: make(map[uint64]func(bool)),
		logger:    logger,
	}
}

// IsOnline returns the current connectivity state
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Set принимает сигнал платформы. Повторный сигнал с тем же значением игнорируется.
// Колбэки вызываются синхронно и не должны вызывать Set.
func (m *Monitor) Set(online bool) {
	m.setMu.Lock()
	defer m.setMu.Unlock()

	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online

	listeners := make([]func(bool), 0, len(m.listeners))
	for id := uint64(0); id < m.nextID; id++ {
		if fn, ok := m.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	hook := m.hook
	m.mu.Unlock()

	m.logger.Info("Connectivity changed", "online", online)

	for _, fn := range listeners {
		fn(online)
	}
	if online && hook != nil {
		hook()
	}
}

// OnChange registers a transition callback and returns a function that removes it
func (m *Monitor) OnChange(fn func(online bool)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}

// SetOnlineHook устанавливает единственный обработчик перехода offline → online.
// Повторная регистрация заменяет предыдущий обработчик, поэтому на каждый
// переход он вызывается ровно один раз. nil снимает обработчик.
func (m *Monitor) SetOnlineHook(fn func()) {
	m.mu.Lock()
	m.hook = fn
	m.mu.Unlock()
}
