package prom

import (
	"time"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/models/extract"
)

// InstallExtractHooks wires Prometheus metrics with extraction callbacks.
func InstallExtractHooks() {
	extract.WithHooks(extract.Hooks{
		OnResult: func(source string) {
			ExtractResultsTotal.WithLabelValues(labelOr(source, "unknown")).Inc()
		},
		OnRemoteLatency: func(latency time.Duration) {
			ExtractRemoteSeconds.Observe(latency.Seconds())
		},
		OnRemoteOutcome: func(outcome string) {
			ExtractRemoteOutcomesTotal.WithLabelValues(labelOr(outcome, "unknown")).Inc()
		},
		OnFieldHit: func(source, field string) {
			ExtractFieldHitsTotal.WithLabelValues(labelOr(source, "unknown"), labelOr(field, "unknown")).Inc()
		},
		OnCache: func(result string) {
			ExtractCacheTotal.WithLabelValues(labelOr(result, "unknown")).Inc()
		},
	})
}

func labelOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
