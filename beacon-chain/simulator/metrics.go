package simulator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	simulatedBlocksCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simulator_blocks_total",
		Help: "Number of blocks produced by the interop simulator.",
	})
	simulatedVotesCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simulator_votes_total",
		Help: "Number of votes gossiped by the interop simulator, by delivery path.",
	}, []string{"path"})
	packedAggregatesCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simulator_packed_aggregates_total",
		Help: "Number of off-chain aggregates packed into simulated blocks.",
	})
)
