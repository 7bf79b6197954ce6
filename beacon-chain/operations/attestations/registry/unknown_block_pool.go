package registry

import (
	"context"
	"fmt"

	"github.com/ethbeacon/attpool/beacon-chain/db/iface"
	"github.com/ethbeacon/attpool/config/params"
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	"github.com/ethbeacon/attpool/encoding/bytesutil"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/time/slots"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// ErrPoolNotInitialized is returned when the unknown block pool is used before
// it received its first slot.
var ErrPoolNotInitialized = errors.New("unknown block pool has not received a slot yet")

// ErrOutsideWindow is returned when an attestation votes for an unknown block
// but its target epoch falls outside the tracked window. It is not parked.
var ErrOutsideWindow = errors.New("target epoch outside the unknown block window")

// PoolState is the lifecycle state of the unknown block pool.
type PoolState int

const (
	// Uninitialized pools have not seen a slot and reject every call.
	Uninitialized PoolState = iota
	// Ready pools track a window starting at the baseline epoch.
	Ready
)

// String --
func (s PoolState) String() string {
	if s == Ready {
		return "ready"
	}
	return "uninitialized"
}

// UnknownBlockPool holds attestations voting for blocks that are not in the
// block store yet, and releases them once the block is imported.
type UnknownBlockPool struct {
	blocks iface.ReadOnlyDatabase
	queue  *Queue
	state  PoolState
}

// NewUnknownBlockPool creates a pool tracking 2+lookahead epochs and holding
// at most maxSize attestations.
func NewUnknownBlockPool(blocks iface.ReadOnlyDatabase, lookahead primitives.Epoch, maxSize int) *UnknownBlockPool {
	return &UnknownBlockPool{
		blocks: blocks,
		queue:  NewQueue(2+lookahead, maxSize),
	}
}

// State returns whether the pool received its first slot.
func (p *UnknownBlockPool) State() PoolState {
	return p.state
}

// Add parks the attestation if its block is unknown and reports whether it
// did so. Attestations with a known block are left to the caller. An unknown
// block vote that cannot be parked returns ErrOutsideWindow and must not be
// forwarded either.
func (p *UnknownBlockPool) Add(ctx context.Context, att *ethpb.ReceivedAttestation) (bool, error) {
	ctx, span := trace.StartSpan(ctx, "registry.UnknownBlockPool.Add")
	defer span.End()

	if p.state != Ready {
		return false, ErrPoolNotInitialized
	}
	data := att.Attestation.GetData()
	if data == nil || data.Target == nil {
		return false, errors.New("attestation has no target")
	}
	root := att.Attestation.BlockRoot()
	if p.blocks.HasBlock(ctx, root) {
		return false, nil
	}
	fields := logrus.Fields{
		"blockRoot":   fmt.Sprintf("%#x", bytesutil.Trunc(root[:])),
		"targetEpoch": data.Target.Epoch,
		"peer":        att.PeerID,
	}
	if !p.queue.Park(data.Target.Epoch, root, att) {
		unknownBlockDroppedCount.Inc()
		log.WithFields(fields).Debug("Dropping unknown block attestation outside the window")
		return false, ErrOutsideWindow
	}
	unknownBlockParkedCount.Inc()
	unknownBlockPoolSize.Set(float64(p.queue.Size()))
	log.WithFields(fields).Debug("Attestation votes for an unknown block")
	return true, nil
}

// FeedNewImportedBlock returns the attestations waiting for the given block
// and forgets them. Blocks outside the tracked window release nothing.
func (p *UnknownBlockPool) FeedNewImportedBlock(ctx context.Context, blk *ethpb.SignedBeaconBlock) ([]*ethpb.ReceivedAttestation, error) {
	_, span := trace.StartSpan(ctx, "registry.UnknownBlockPool.FeedNewImportedBlock")
	defer span.End()

	if p.state != Ready {
		return nil, ErrPoolNotInitialized
	}
	if blk == nil || blk.Block == nil {
		return nil, errors.New("nil block")
	}
	if !p.queue.Contains(slots.ToEpoch(blk.Block.Slot)) {
		return nil, nil
	}
	root, err := blk.Block.HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(err, "could not hash imported block")
	}
	released := p.queue.EvictByRoot(root)
	if len(released) > 0 {
		unknownBlockReleasedCount.Add(float64(len(released)))
		log.WithFields(logrus.Fields{
			"blockRoot": fmt.Sprintf("%#x", bytesutil.Trunc(root[:])),
			"count":     len(released),
		}).Debug("Releasing attestations of imported block")
	}
	unknownBlockPoolSize.Set(float64(p.queue.Size()))
	return released, nil
}

// FeedNewSlot moves the window to start one epoch before the epoch of the
// slot, or at the genesis epoch.
func (p *UnknownBlockPool) FeedNewSlot(slot primitives.Slot) {
	epoch := slots.ToEpoch(slot)
	baseline := epoch
	if epoch != params.BeaconConfig().GenesisEpoch {
		baseline = epoch - 1
	}
	if current, ok := p.queue.Baseline(); ok && baseline <= current {
		return
	}
	if err := p.queue.AdvanceBaseline(baseline); err != nil {
		// Unreachable, the baseline was checked above.
		log.WithError(err).Error("Could not advance unknown block pool baseline")
		return
	}
	p.state = Ready
	unknownBlockPoolSize.Set(float64(p.queue.Size()))
}

// Size returns the number of parked attestations.
func (p *UnknownBlockPool) Size() int {
	return p.queue.Size()
}
