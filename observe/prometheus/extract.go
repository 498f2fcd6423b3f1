package prom

import "github.com/prometheus/client_golang/prometheus"

var (
	ExtractResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aitravel",
			Subsystem: "extract",
			Name:      "results_total",
			Help:      "Extractions partitioned by the tier that produced the fields.",
		},
		[]string{"source"}, // remote|local
	)

	ExtractRemoteSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "aitravel",
			Subsystem: "extract",
			Name:      "remote_seconds",
			Help:      "Latency of the remote inference call, including timeouts.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
	)

	ExtractRemoteOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aitravel",
			Subsystem: "extract",
			Name:      "remote_outcomes_total",
			Help:      "Remote inference outcomes.",
		},
		[]string{"outcome"}, // ok|error|timeout|canceled|empty|panic|disabled
	)

	ExtractFieldHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aitravel",
			Subsystem: "extract",
			Name:      "field_hits_total",
			Help:      "Fields present in extraction results.",
		},
		[]string{"source", "field"},
	)

	ExtractCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aitravel",
			Subsystem: "extract",
			Name:      "cache_total",
			Help:      "Remote result cache lookups.",
		},
		[]string{"result"}, // hit|miss|error
	)
)
