package prom

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var regOnce sync.Once

// MustRegisterAll registers all Prometheus collectors exactly once and installs hooks.
func MustRegisterAll() {
	regOnce.Do(func() {
		prometheus.MustRegister(
			// extract
			ExtractResultsTotal,
			ExtractRemoteSeconds,
			ExtractRemoteOutcomesTotal,
			ExtractFieldHitsTotal,
			ExtractCacheTotal,

			// recorder
			RecorderQueueDroppedTotal,
			RecorderDBInsertBatchSeconds,
			RecorderDBInsertBatchesTotal,
			RecorderDBInsertRowsTotal,
			RecorderDBRetryTotal,
			RecorderDBPoolOpen,
			RecorderDBPoolInUse,
			RecorderDBPoolIdle,
			RecorderDBWaitCount,
			RecorderDBWaitSeconds,
		)

		InstallExtractHooks()
		InstallRecorderHooks()
	})
}
