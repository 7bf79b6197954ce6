package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	processedEvictedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attestation_pool_processed_evicted_total",
		Help: "The number of fingerprints evicted from the processed attestations registry at capacity.",
	})
	delayStoreEvictedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attestation_pool_delay_store_evicted_total",
		Help: "The number of parked attestations dropped by the delay store at capacity.",
	})
	delayStoreRejectedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attestation_pool_delay_store_rejected_total",
		Help: "The number of attestations the delay store refused to park, by reason.",
	}, []string{"reason"})
	unknownBlockParkedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attestation_pool_unknown_block_parked_total",
		Help: "The number of attestations parked while waiting for their block.",
	})
	unknownBlockDroppedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attestation_pool_unknown_block_dropped_total",
		Help: "The number of unknown block attestations dropped because their target epoch is outside the window.",
	})
	unknownBlockReleasedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attestation_pool_unknown_block_released_total",
		Help: "The number of parked attestations released on block import.",
	})
	unknownBlockPoolSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "attestation_pool_unknown_block_size",
		Help: "The number of attestations currently parked in the unknown block pool.",
	})
)
