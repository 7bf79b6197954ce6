package attestations

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	receivedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attpool_received_total",
		Help: "Number of attestations entering the pool, re-injected ones included.",
	})
	reinjectedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attpool_reinjected_total",
		Help: "Number of attestations fed back to the pool after a delay.",
	}, []string{"source"})
	droppedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attpool_dropped_total",
		Help: "Number of attestations dropped without a verdict.",
	}, []string{"reason"})
	validCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attpool_valid_total",
		Help: "Number of attestations that passed full verification.",
	})
	invalidCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attpool_invalid_total",
		Help: "Number of attestations rejected by the pool.",
	})
	parkedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attpool_unknown_block_total",
		Help: "Number of attestations parked until their block is imported.",
	})
	pendingBatchSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "attpool_pending_batch_size",
		Help: "Number of attestations waiting for the next full verification batch.",
	})
	outputDroppedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attpool_output_dropped_total",
		Help: "Number of results dropped because the consumer fell behind.",
	}, []string{"output"})
	processedSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "attpool_processed_size",
		Help: "Number of fingerprints held by the dedup registry.",
	})
)
