package pending

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queueSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pending_queue_size",
		Help: "Number of items waiting in a delay queue.",
	}, []string{"queue"})
	queuedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pending_queued_total",
		Help: "Number of items accepted by a delay queue, duplicates excluded.",
	}, []string{"queue"})
	dequeuedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pending_dequeued_total",
		Help: "Number of items released by a delay queue.",
	}, []string{"queue"})
)
