package prom

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/models/recorder"
)

var (
	RecorderQueueDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "aitravel",
			Subsystem: "recorder",
			Name:      "queue_dropped_total",
			Help:      "Audit records dropped because the write queue was full or closed.",
		},
	)

	// ===== DB metrics =====
	RecorderDBInsertBatchSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "aitravel",
			Subsystem: "recorder",
			Name:      "db_insert_total_seconds",
			Help:      "Total latency of DB batch insert including retries.",
			Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5},
		},
	)

	RecorderDBInsertBatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aitravel",
			Subsystem: "recorder",
			Name:      "db_insert_batches_total",
			Help:      "DB insert batches by result.",
		},
		[]string{"result"}, // ok|error|retry_ok
	)

	RecorderDBInsertRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aitravel",
			Subsystem: "recorder",
			Name:      "db_insert_rows_total",
			Help:      "Rows attempted outcome.",
		},
		[]string{"result"}, // inserted|ignored|error
	)

	RecorderDBRetryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aitravel",
			Subsystem: "recorder",
			Name:      "db_retry_total",
			Help:      "DB retry attempts by reason.",
		},
		[]string{"reason"}, // timeout|deadlock
	)

	// ===== DB connection pool metrics =====
	RecorderDBPoolOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "aitravel",
			Subsystem: "recorder",
			Name:      "db_pool_open",
			Help:      "sql.DB OpenConnections.",
		},
	)

	RecorderDBPoolInUse = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "aitravel",
			Subsystem: "recorder",
			Name:      "db_pool_in_use",
			Help:      "sql.DB InUse.",
		},
	)

	RecorderDBPoolIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "aitravel",
			Subsystem: "recorder",
			Name:      "db_pool_idle",
			Help:      "sql.DB Idle.",
		},
	)

	RecorderDBWaitCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "aitravel",
			Subsystem: "recorder",
			Name:      "db_wait_count_total",
			Help:      "sql.DB cumulative wait count. Use rate() to see waits per second.",
		},
	)

	RecorderDBWaitSeconds = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "aitravel",
			Subsystem: "recorder",
			Name:      "db_wait_seconds_total",
			Help:      "sql.DB cumulative wait duration in seconds.",
		},
	)
)

// InstallRecorderHooks wires Prometheus metrics with audit recorder callbacks.
func InstallRecorderHooks() {
	var lastWaitCount atomic.Int64
	var lastWaitDuration atomic.Int64 // nanoseconds

	recorder.InstallHooks(&recorder.Hooks{
		OnQueueDropped: func() {
			RecorderQueueDroppedTotal.Inc()
		},
		OnDBInsertLatency: func(latency time.Duration) {
			RecorderDBInsertBatchSeconds.Observe(latency.Seconds())
		},
		OnDBInsertBatchResult: func(result string) {
			RecorderDBInsertBatchesTotal.WithLabelValues(labelOr(result, "unknown")).Inc()
		},
		OnDBInsertRows: func(result string, count int64) {
			RecorderDBInsertRowsTotal.WithLabelValues(labelOr(result, "unknown")).Add(float64(count))
		},
		OnDBRetry: func(reason string) {
			RecorderDBRetryTotal.WithLabelValues(labelOr(reason, "unknown")).Inc()
		},
		OnDBPoolStats: func(stats recorder.DBPoolStats) {
			RecorderDBPoolOpen.Set(float64(stats.Open))
			RecorderDBPoolInUse.Set(float64(stats.InUse))
			RecorderDBPoolIdle.Set(float64(stats.Idle))

			// 计数器按增量累加
			prevCount := lastWaitCount.Swap(stats.WaitCount)
			if prevCount > 0 && stats.WaitCount > prevCount {
				RecorderDBWaitCount.Add(float64(stats.WaitCount - prevCount))
			}

			durationNanos := stats.WaitDuration.Nanoseconds()
			prevDuration := lastWaitDuration.Swap(durationNanos)
			if prevDuration > 0 && durationNanos > prevDuration {
				RecorderDBWaitSeconds.Add(float64(durationNanos-prevDuration) / 1e9)
			}
		},
	})
}
