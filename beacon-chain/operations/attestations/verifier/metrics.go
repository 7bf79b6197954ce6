package verifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lightRejectedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attestation_pool_light_rejected_total",
		Help: "The number of attestations rejected by the light verifier, by reason.",
	}, []string{"reason"})
	lightUninitializedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attestation_pool_light_uninitialized_dropped_total",
		Help: "The number of attestations dropped because the light verifier had no finalized checkpoint or slot yet.",
	})
	fullBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "attestation_pool_full_verify_batch_size",
		Help:    "The number of attestations per full verification batch.",
		Buckets: []float64{1, 10, 100, 500, 1000, 2500, 5000, 10000},
	})
	fullBatchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "attestation_pool_full_verify_batch_milliseconds",
		Help:    "Time spent verifying a full verification batch.",
		Buckets: []float64{1, 5, 10, 50, 100, 250, 500, 1000, 5000},
	})
	fullRejectedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attestation_pool_full_rejected_total",
		Help: "The number of attestations rejected by the full verifier, by reason.",
	}, []string{"reason"})
	aggregateFallbackCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attestation_pool_aggregate_verify_fallback_total",
		Help: "The number of aggregate signature checks that failed and fell back to single checks.",
	})
)
