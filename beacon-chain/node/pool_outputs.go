package node

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ethbeacon/attpool/async"
	"github.com/ethbeacon/attpool/beacon-chain/operations/attestations"
	"github.com/ethbeacon/attpool/config/params"
	"github.com/sirupsen/logrus"
)

// poolOutputs drains the attestation pool outputs that nothing else in the
// node consumes and logs a summary every slot.
type poolOutputs struct {
	ctx    context.Context
	cancel context.CancelFunc
	pool   *attestations.Service
	// drainAggregates is false when the interop chain packs the aggregates.
	drainAggregates bool
	wg              sync.WaitGroup

	valid      atomic.Uint64
	invalid    atomic.Uint64
	parked     atomic.Uint64
	aggregates atomic.Uint64
}

func newPoolOutputs(ctx context.Context, pool *attestations.Service, drainAggregates bool) *poolOutputs {
	ctx, cancel := context.WithCancel(ctx)
	return &poolOutputs{
		ctx:             ctx,
		cancel:          cancel,
		pool:            pool,
		drainAggregates: drainAggregates,
	}
}

// Start --
func (p *poolOutputs) Start() {
	p.wg.Add(1)
	go p.run()
	async.RunEvery(p.ctx, params.BeaconConfig().SlotDuration(), p.logSummary)
}

// Stop --
func (p *poolOutputs) Stop() error {
	p.cancel()
	p.wg.Wait()
	return nil
}

// Status --
func (*poolOutputs) Status() error {
	return nil
}

func (p *poolOutputs) run() {
	defer p.wg.Done()
	aggregates := p.pool.Aggregates()
	if !p.drainAggregates {
		aggregates = nil
	}
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-p.pool.Valid():
			p.valid.Add(1)
		case att := <-p.pool.Invalid():
			p.invalid.Add(1)
			log.WithField("peer", att.PeerID).Trace("Invalid attestation")
		case <-p.pool.UnknownBlock():
			p.parked.Add(1)
		case aggs := <-aggregates:
			p.aggregates.Add(uint64(len(aggs.Aggregates)))
		}
	}
}

func (p *poolOutputs) logSummary() {
	log.WithFields(logrus.Fields{
		"valid":      p.valid.Swap(0),
		"invalid":    p.invalid.Swap(0),
		"parked":     p.parked.Swap(0),
		"aggregates": p.aggregates.Swap(0),
	}).Info("Attestation pool summary")
}
