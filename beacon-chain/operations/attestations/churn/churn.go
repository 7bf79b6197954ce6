// Package churn turns verified attestations into off-chain aggregates ready
// for block inclusion on top of the current head.
package churn

import (
	"context"
	"sort"
	"sync"
	"time"

	statefeed "github.com/ethbeacon/attpool/beacon-chain/core/feed/state"
	"github.com/ethbeacon/attpool/config/params"
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/time/slots"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// OffChainAggregates are the aggregates computed for a given head. The value
// is not modified after Compute returns it.
type OffChainAggregates struct {
	BlockRoot  [32]byte
	Slot       primitives.Slot
	Aggregates []*ethpb.Attestation
}

// Churn keeps a bounded queue of verified attestations whose target epoch
// lies within [lower, upper].
type Churn struct {
	lock      sync.Mutex
	queue     *simplelru.LRU[[32]byte, *ethpb.Attestation]
	justified *ethpb.Checkpoint
	lower     primitives.Epoch
	upper     primitives.Epoch
}

// New creates a churn holding at most size attestations.
func New(size int) (*Churn, error) {
	queue, err := simplelru.NewLRU[[32]byte, *ethpb.Attestation](size, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not create churn queue")
	}
	return &Churn{queue: queue}, nil
}

// Add queues verified attestations. Attestations outside the epoch
// boundaries are ignored and the oldest ones are dropped at capacity.
func (c *Churn) Add(atts ...*ethpb.Attestation) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for _, att := range atts {
		if att == nil || att.Data == nil || att.Data.Target == nil {
			continue
		}
		if !c.inBoundaries(att.Data.Target.Epoch) {
			churnEvictedCount.WithLabelValues("out_of_bounds").Inc()
			continue
		}
		root, err := att.HashTreeRoot()
		if err != nil {
			log.WithError(err).Debug("Could not hash attestation")
			continue
		}
		if c.queue.Add(root, att) {
			churnEvictedCount.WithLabelValues("capacity").Inc()
		}
	}
	churnQueueSize.Set(float64(c.queue.Len()))
}

// Len returns the number of queued attestations.
func (c *Churn) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.queue.Len()
}

// Boundaries returns the accepted range of target epochs.
func (c *Churn) Boundaries() (primitives.Epoch, primitives.Epoch) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lower, c.upper
}

// FeedNewSlot keeps attestations targeting the previous or the current epoch.
func (c *Churn) FeedNewSlot(slot primitives.Slot) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.updateSlot(slot)
}

// FeedJustifiedCheckpoint moves the lower boundary to the checkpoint if it is
// newer than the last justified checkpoint.
func (c *Churn) FeedJustifiedCheckpoint(cp *ethpb.Checkpoint) {
	if cp == nil {
		return
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.justified != nil && cp.Epoch <= c.justified.Epoch {
		return
	}
	c.updateCheckpoint(cp)
	c.justified = cp.Copy()
}

// FeedFinalizedCheckpoint moves the lower boundary to the checkpoint. It
// leaves the last justified checkpoint untouched.
func (c *Churn) FeedFinalizedCheckpoint(cp *ethpb.Checkpoint) {
	if cp == nil {
		return
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.updateCheckpoint(cp)
}

// Compute returns the aggregates of every queued attestation not yet
// covered by the head and includable in the block following it.
func (c *Churn) Compute(ctx context.Context, head *statefeed.ChainHeadData) (*OffChainAggregates, error) {
	_, span := trace.StartSpan(ctx, "churn.Compute")
	defer span.End()
	if head == nil {
		return nil, errors.New("nil chain head")
	}
	start := time.Now()
	defer func() {
		churnComputeLatency.Observe(float64(time.Since(start).Milliseconds()))
	}()

	c.lock.Lock()
	c.updateSlot(head.Slot)
	queued := make([]*ethpb.Attestation, 0, c.queue.Len())
	for _, k := range c.queue.Keys() {
		if att, ok := c.queue.Peek(k); ok {
			queued = append(queued, att)
		}
	}
	c.lock.Unlock()

	result := &OffChainAggregates{BlockRoot: head.BlockRoot, Slot: head.Slot}
	if len(queued) == 0 {
		return result, nil
	}
	coverage, err := computeCoverage(head.IncludedAttestations)
	if err != nil {
		return nil, err
	}

	candidates := make([]*ethpb.Attestation, 0, len(queued))
	for _, att := range queued {
		covered, err := isCovered(coverage, att)
		if err != nil {
			return nil, err
		}
		if covered || !includable(att.Data.Slot, head.Slot) {
			continue
		}
		candidates = append(candidates, att)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Data.Target.Epoch < candidates[j].Data.Target.Epoch
	})

	groups, err := GroupAttestations(candidates)
	if err != nil {
		return nil, err
	}
	result.Aggregates = make([]*ethpb.Attestation, 0, len(groups))
	for _, g := range groups {
		agg, err := g.Finalize()
		if err != nil {
			return nil, errors.Wrap(err, "could not finalize aggregate")
		}
		result.Aggregates = append(result.Aggregates, agg)
	}
	churnAggregatesCount.Add(float64(len(result.Aggregates)))
	span.AddAttributes(trace.Int64Attribute("aggregates", int64(len(result.Aggregates))))
	log.WithFields(logrus.Fields{
		"slot":       head.Slot,
		"queued":     len(queued),
		"candidates": len(candidates),
		"aggregates": len(result.Aggregates),
	}).Debug("Computed off-chain aggregates")
	return result, nil
}

func (c *Churn) updateSlot(slot primitives.Slot) {
	epoch := slots.ToEpoch(slot)
	lower := epoch
	if epoch > params.BeaconConfig().GenesisEpoch {
		lower = epoch - 1
	}
	c.updateBoundaries(lower, epoch)
}

func (c *Churn) updateCheckpoint(cp *ethpb.Checkpoint) {
	upper := c.upper
	if cp.Epoch > upper {
		upper = cp.Epoch
	}
	c.updateBoundaries(cp.Epoch, upper)
}

// updateBoundaries only ever moves the boundaries forward.
func (c *Churn) updateBoundaries(lower, upper primitives.Epoch) {
	if lower <= c.lower && upper <= c.upper {
		return
	}
	if lower > c.lower {
		c.lower = lower
	}
	if upper > c.upper {
		c.upper = upper
	}
	for _, k := range c.queue.Keys() {
		att, ok := c.queue.Peek(k)
		if !ok || c.inBoundaries(att.Data.Target.Epoch) {
			continue
		}
		c.queue.Remove(k)
		churnEvictedCount.WithLabelValues("out_of_bounds").Inc()
	}
	churnQueueSize.Set(float64(c.queue.Len()))
}

func (c *Churn) inBoundaries(epoch primitives.Epoch) bool {
	return epoch >= c.lower && epoch <= c.upper
}

// computeCoverage unions the bits of the attestations already on chain,
// per attestation data.
func computeCoverage(included []*ethpb.Attestation) (map[[32]byte]bitfield.Bitlist, error) {
	coverage := make(map[[32]byte]bitfield.Bitlist, len(included))
	for _, att := range included {
		if att == nil || att.Data == nil {
			continue
		}
		root, err := att.Data.HashTreeRoot()
		if err != nil {
			return nil, errors.Wrap(err, "could not hash included attestation data")
		}
		bits, ok := coverage[root]
		if !ok {
			coverage[root] = att.AggregationBits
			continue
		}
		merged, err := bits.Or(att.AggregationBits)
		if err != nil {
			log.WithError(err).Debug("Skipping included attestation with a different committee size")
			continue
		}
		coverage[root] = merged
	}
	return coverage, nil
}

// isCovered reports whether any bit of att is already on chain.
func isCovered(coverage map[[32]byte]bitfield.Bitlist, att *ethpb.Attestation) (bool, error) {
	root, err := att.Data.HashTreeRoot()
	if err != nil {
		return false, errors.Wrap(err, "could not hash attestation data")
	}
	bits, ok := coverage[root]
	if !ok {
		return false, nil
	}
	overlaps, err := bits.Overlaps(att.AggregationBits)
	if err != nil {
		return false, nil
	}
	return overlaps, nil
}

// includable checks att.slot + MIN_ATTESTATION_INCLUSION_DELAY <= head <= att.slot + SLOTS_PER_EPOCH.
func includable(attSlot, headSlot primitives.Slot) bool {
	cfg := params.BeaconConfig()
	return attSlot+cfg.MinAttestationInclusionDelay <= headSlot && headSlot <= attSlot+cfg.SlotsPerEpoch
}
