package churn

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	churnQueueSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "attpool_churn_queue_size",
		Help: "Number of verified attestations waiting to be aggregated.",
	})
	churnEvictedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attpool_churn_evicted_total",
		Help: "Number of attestations dropped from the churn queue.",
	}, []string{"reason"})
	churnAggregatesCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attpool_churn_aggregates_total",
		Help: "Number of off-chain aggregates produced.",
	})
	churnComputeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "attpool_churn_compute_milliseconds",
		Help:    "Time spent computing off-chain aggregates for a new head.",
		Buckets: []float64{1, 5, 10, 50, 100, 250, 500, 1000},
	})
)
