package models

import "time"

// SyncState состояние машины синхронизации
type SyncState string

const (
	SyncStateIdle             SyncState = "idle"
	SyncStateSyncing          SyncState = "syncing"
	SyncStateIdleWithFailures SyncState = "idle_with_failures"
)

// Snapshot агрегированное состояние синхронизации для потребителей (UI, CLI).
type Snapshot struct {
	LastSyncAt    time.Time `json:"last_sync_at"`
	State         SyncState `json:"state"`
	PendingCount  int       `json:"pending_count"`
	InFlightCount int       `json:"in_flight_count"`
	FailedCount   int       `json:"failed_count"`
	ConflictCount int       `json:"conflict_count"`
	IsOnline      bool      `json:"is_online"`
	IsSyncing     bool      `json:"is_syncing"`
}

// NeedsAttention reports whether failed items or conflicts require a user decision.
func (s Snapshot) NeedsAttention() bool {
	return s.FailedCount > 0 || s.ConflictCount > 0
}
