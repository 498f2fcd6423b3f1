package recorder

import (
	"sync/atomic"
	"time"
)

// Hooks defines optional callbacks for recorder observability.
// Prometheus package injects concrete implementation via InstallRecorderHooks.
type Hooks struct {
	// Records dropped because the write queue was full
	OnQueueDropped func()

	// ===== DB metrics =====
	// Latency of one DB batch insert
	OnDBInsertLatency func(latency time.Duration)
	// DB insert batch result: ok|error|retry_ok
	OnDBInsertBatchResult func(result string)
	// DB insert rows result: inserted|ignored|error
	OnDBInsertRows func(result string, count int64)
	// DB retry attempts by reason: timeout|deadlock
	OnDBRetry func(reason string)

	// ===== DB pool stats =====
	OnDBPoolStats func(stats DBPoolStats)
}

// DBPoolStats holds sql.DB.Stats() snapshot
type DBPoolStats struct {
	Open         int
	InUse        int
	Idle         int
	WaitCount    int64
	WaitDuration time.Duration
}

var globalHooks atomic.Value // stores *Hooks

// InstallHooks sets the global hooks instance (called by prometheus package)
func InstallHooks(h *Hooks) {
	if h != nil {
		globalHooks.Store(h)
	}
}

// getHooks returns the current hooks or nil
func getHooks() *Hooks {
	v := globalHooks.Load()
	if v == nil {
		return nil
	}
	return v.(*Hooks)
}

// ReportQueueDropped reports a record dropped before reaching the DB
func ReportQueueDropped() {
	if h := getHooks(); h != nil && h.OnQueueDropped != nil {
		h.OnQueueDropped()
	}
}

// ReportDBInsertLatency reports DB insert latency
func ReportDBInsertLatency(latency time.Duration) {
	if h := getHooks(); h != nil && h.OnDBInsertLatency != nil {
		h.OnDBInsertLatency(latency)
	}
}

// ReportDBInsertBatchResult reports DB insert batch result
func ReportDBInsertBatchResult(result string) {
	if h := getHooks(); h != nil && h.OnDBInsertBatchResult != nil {
		h.OnDBInsertBatchResult(result)
	}
}

// ReportDBInsertRows reports DB insert row counts by result
func ReportDBInsertRows(result string, count int64) {
	if h := getHooks(); h != nil && h.OnDBInsertRows != nil {
		h.OnDBInsertRows(result, count)
	}
}

// ReportDBRetry reports DB retry attempts
func ReportDBRetry(reason string) {
	if h := getHooks(); h != nil && h.OnDBRetry != nil {
		h.OnDBRetry(reason)
	}
}

// ReportDBPoolStats reports DB connection pool stats
func ReportDBPoolStats(stats DBPoolStats) {
	if h := getHooks(); h != nil && h.OnDBPoolStats != nil {
		h.OnDBPoolStats(stats)
	}
}
