// Package metrics provides Prometheus metrics for the fennel service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK         = "ok"
	OutcomeInvalid    = "invalid"
	OutcomeStoreError = "store_error"
	OutcomeNoMatch    = "no_match"
)

var (
	// SearchRequestsTotal tracks patient searches by outcome
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fennel",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Total number of patient searches by outcome",
		},
		[]string{"outcome"},
	)

	// SearchDuration tracks search latency in seconds
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fennel",
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Duration of patient searches in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	// SearchCandidates tracks how many rows were retrieved and how many survived ranking
	SearchCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fennel",
			Subsystem: "search",
			Name:      "candidates",
			Help:      "Number of candidates per search stage",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200},
		},
		[]string{"stage"},
	)

	// RateUpsertsTotal tracks rate reconciliation calls
	RateUpsertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fennel",
			Subsystem: "rates",
			Name:      "upserts_total",
			Help:      "Total number of rate upserts by kind and status",
		},
		[]string{"kind", "status"},
	)
)

// RecordSearch records a completed search
func RecordSearch(outcome string, durationSeconds float64, retrieved, returned int) {
	SearchRequestsTotal.WithLabelValues(outcome).Inc()
	SearchDuration.Observe(durationSeconds)
	SearchCandidates.WithLabelValues("retrieved").Observe(float64(retrieved))
	SearchCandidates.WithLabelValues("returned").Observe(float64(returned))
}

// RecordRateUpsert records a rate reconciliation call
func RecordRateUpsert(kind string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	RateUpsertsTotal.WithLabelValues(kind, status).Inc()
}
