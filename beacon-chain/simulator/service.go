// Package simulator drives a local interop chain: it produces a block every
// slot, moves the checkpoints every epoch and gossips the votes of a
// deterministic validator set into the node feeds.
package simulator

import (
	"context"
	"fmt"

	"github.com/ethbeacon/attpool/beacon-chain/core/feed"
	opfeed "github.com/ethbeacon/attpool/beacon-chain/core/feed/operation"
	statefeed "github.com/ethbeacon/attpool/beacon-chain/core/feed/state"
	"github.com/ethbeacon/attpool/beacon-chain/db/iface"
	"github.com/ethbeacon/attpool/beacon-chain/operations/attestations/churn"
	"github.com/ethbeacon/attpool/config/params"
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	"github.com/ethbeacon/attpool/encoding/bytesutil"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/time/slots"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"
	"github.com/sirupsen/logrus"
)

// Vote delivery paths.
const (
	pathEarly   = "early"
	pathDelayed = "delayed"
	pathDirect  = "direct"
)

// Config options for the simulator service.
type Config struct {
	BeaconDB          iface.HeadAccessDatabase
	StateNotifier     statefeed.Notifier
	OperationNotifier opfeed.Notifier
	SlotTicker        slots.Ticker
	Validators        *Validators
	// Aggregates, when set, are packed into the next produced block.
	Aggregates <-chan *churn.OffChainAggregates
	// UseDelayQueues routes part of the votes through the slot delay queue.
	UseDelayQueues bool
	// PeerID is the sender recorded on gossiped votes.
	PeerID string
}

// Simulator produces blocks and votes for a local interop chain.
type Simulator struct {
	cfg     *Config
	ctx     context.Context
	cancel  context.CancelFunc
	err     error
	started bool
	done    chan struct{}

	head       [32]byte
	headSlot   primitives.Slot
	boundaries map[primitives.Epoch][32]byte
	justified  *ethpb.Checkpoint
	finalized  *ethpb.Checkpoint
	toPack     []*ethpb.Attestation
	included   []*ethpb.Attestation
}

// NewSimulator creates a simulator. The genesis block is written on Start.
func NewSimulator(ctx context.Context, cfg *Config) (*Simulator, error) {
	switch {
	case cfg == nil:
		return nil, errors.New("nil config")
	case cfg.BeaconDB == nil:
		return nil, errors.New("nil beacon db")
	case cfg.StateNotifier == nil || cfg.OperationNotifier == nil:
		return nil, errors.New("nil notifier")
	case cfg.SlotTicker == nil:
		return nil, errors.New("nil slot ticker")
	case cfg.Validators == nil:
		return nil, errors.New("nil validators")
	}
	if cfg.PeerID == "" {
		cfg.PeerID = "simulator"
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Simulator{
		cfg:        cfg,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		boundaries: make(map[primitives.Epoch][32]byte),
	}, nil
}

// Start writes the genesis block and checkpoints synchronously, so services
// started after the simulator find them in the db, then runs the chain.
func (sim *Simulator) Start() {
	if err := sim.saveGenesis(); err != nil {
		log.WithError(err).Error("Could not save genesis")
		sim.err = err
		return
	}
	log.WithFields(logrus.Fields{
		"validators":        sim.cfg.Validators.Count(),
		"committeesPerSlot": sim.cfg.Validators.CommitteesPerSlot(),
	}).Info("Starting interop chain")
	sim.started = true
	go sim.run()
}

// Stop the simulator.
func (sim *Simulator) Stop() error {
	sim.cancel()
	if sim.started {
		<-sim.done
	}
	sim.cfg.SlotTicker.Done()
	return nil
}

// Status returns the error that stopped the chain, if any.
func (sim *Simulator) Status() error {
	return sim.err
}

func (sim *Simulator) run() {
	defer close(sim.done)
	for {
		select {
		case <-sim.ctx.Done():
			log.Debug("Simulator context closed, exiting goroutine")
			return
		case aggs := <-sim.cfg.Aggregates:
			if aggs != nil {
				sim.toPack = aggs.Aggregates
			}
		case slot := <-sim.cfg.SlotTicker.C():
			if err := sim.onSlot(sim.ctx, slot); err != nil {
				log.WithError(err).WithField("slot", slot).Error("Could not simulate slot")
			}
		}
	}
}

func (sim *Simulator) saveGenesis() error {
	ctx := sim.ctx
	genesis := newBlock(params.BeaconConfig().GenesisSlot, [32]byte{}, nil)
	root, err := genesis.Block.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not hash genesis block")
	}
	if err := sim.cfg.BeaconDB.SaveBlock(ctx, genesis); err != nil {
		return errors.Wrap(err, "could not save genesis block")
	}
	if err := sim.cfg.BeaconDB.SaveHeadBlockRoot(ctx, root); err != nil {
		return errors.Wrap(err, "could not save head")
	}
	cp := &ethpb.Checkpoint{Epoch: params.BeaconConfig().GenesisEpoch, Root: root[:]}
	if err := sim.cfg.BeaconDB.SaveJustifiedCheckpoint(ctx, cp); err != nil {
		return errors.Wrap(err, "could not save justified checkpoint")
	}
	if err := sim.cfg.BeaconDB.SaveFinalizedCheckpoint(ctx, cp); err != nil {
		return errors.Wrap(err, "could not save finalized checkpoint")
	}
	sim.head = root
	sim.headSlot = genesis.Block.Slot
	sim.boundaries[cp.Epoch] = root
	sim.justified = cp
	sim.finalized = cp.Copy()
	return nil
}

// onSlot advances the chain by one block. A third of the votes is gossiped
// before the block is imported, another third goes through the slot delay
// queue when it is enabled, and the rest follows the block.
func (sim *Simulator) onSlot(ctx context.Context, slot primitives.Slot) error {
	if slot <= sim.headSlot {
		return nil
	}
	epoch := slots.ToEpoch(slot)
	if slots.IsEpochStart(slot) {
		if err := sim.moveCheckpoints(ctx, epoch); err != nil {
			return err
		}
	}

	blk := newBlock(slot, sim.head, sim.pack(slot))
	root, err := blk.Block.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not hash block")
	}
	if _, ok := sim.boundaries[epoch]; !ok {
		sim.boundaries[epoch] = root
	}

	var votes []*ethpb.ReceivedAttestation
	if epoch > sim.finalized.Epoch {
		votes, err = sim.attest(ctx, slot, root)
		if err != nil {
			return err
		}
	}
	var late []*ethpb.ReceivedAttestation
	for i, v := range votes {
		switch {
		case i%3 == 0:
			sim.gossip(opfeed.AttestationReceived, v, pathEarly)
		case i%3 == 1 && sim.cfg.UseDelayQueues:
			sim.gossip(opfeed.AttestationDelayedBySlot, v, pathDelayed)
		default:
			late = append(late, v)
		}
	}

	if err := sim.cfg.BeaconDB.SaveBlock(ctx, blk); err != nil {
		return errors.Wrap(err, "could not save block")
	}
	if err := sim.cfg.BeaconDB.SaveHeadBlockRoot(ctx, root); err != nil {
		return errors.Wrap(err, "could not save head")
	}
	sim.head = root
	sim.headSlot = slot
	simulatedBlocksCount.Inc()
	sim.cfg.StateNotifier.StateFeed().Send(&feed.Event{
		Type: statefeed.BlockImported,
		Data: &statefeed.BlockImportedData{Slot: slot, BlockRoot: root, SignedBlock: blk},
	})
	sim.cfg.StateNotifier.StateFeed().Send(&feed.Event{
		Type: statefeed.ChainHeadUpdated,
		Data: &statefeed.ChainHeadData{Slot: slot, BlockRoot: root, IncludedAttestations: sim.includedAt(slot)},
	})

	for _, v := range late {
		sim.gossip(opfeed.AttestationReceived, v, pathDirect)
	}
	log.WithFields(logrus.Fields{
		"slot":   slot,
		"root":   fmt.Sprintf("%#x", bytesutil.Trunc(root[:])),
		"votes":  len(votes),
		"packed": len(blk.Block.Body.Attestations),
	}).Debug("Produced block")
	return nil
}

// moveCheckpoints justifies the previous epoch and finalizes the one before.
func (sim *Simulator) moveCheckpoints(ctx context.Context, epoch primitives.Epoch) error {
	if epoch < 2 {
		return nil
	}
	justifiedRoot, ok := sim.boundaries[epoch-1]
	if !ok {
		return nil
	}
	finalizedRoot, ok := sim.boundaries[epoch-2]
	if !ok {
		return nil
	}
	justified := &ethpb.Checkpoint{Epoch: epoch - 1, Root: justifiedRoot[:]}
	finalized := &ethpb.Checkpoint{Epoch: epoch - 2, Root: finalizedRoot[:]}
	if err := sim.cfg.BeaconDB.SaveJustifiedCheckpoint(ctx, justified); err != nil {
		return errors.Wrap(err, "could not save justified checkpoint")
	}
	if err := sim.cfg.BeaconDB.SaveFinalizedCheckpoint(ctx, finalized); err != nil {
		return errors.Wrap(err, "could not save finalized checkpoint")
	}
	sim.justified = justified
	sim.finalized = finalized
	for e := range sim.boundaries {
		if e < finalized.Epoch {
			delete(sim.boundaries, e)
		}
	}
	sim.cfg.StateNotifier.StateFeed().Send(&feed.Event{
		Type: statefeed.JustifiedCheckpointUpdated,
		Data: &statefeed.CheckpointData{Checkpoint: justified.Copy()},
	})
	sim.cfg.StateNotifier.StateFeed().Send(&feed.Event{
		Type: statefeed.FinalizedCheckpointUpdated,
		Data: &statefeed.CheckpointData{Checkpoint: finalized.Copy()},
	})
	log.WithFields(logrus.Fields{
		"justified": justified.Epoch,
		"finalized": finalized.Epoch,
	}).Info("Moved checkpoints")
	return nil
}

// attest returns one single-bit vote per committee member for the block.
func (sim *Simulator) attest(ctx context.Context, slot primitives.Slot, blockRoot [32]byte) ([]*ethpb.ReceivedAttestation, error) {
	epoch := slots.ToEpoch(slot)
	targetRoot := sim.boundaries[epoch]
	var votes []*ethpb.ReceivedAttestation
	for i := uint64(0); i < sim.cfg.Validators.CommitteesPerSlot(); i++ {
		index := primitives.CommitteeIndex(i)
		committee, err := sim.cfg.Validators.Committee(slot, index)
		if err != nil {
			return nil, err
		}
		data := &ethpb.AttestationData{
			Slot:            slot,
			CommitteeIndex:  index,
			BeaconBlockRoot: blockRoot[:],
			Source:          sim.justified.Copy(),
			Target:          &ethpb.Checkpoint{Epoch: epoch, Root: targetRoot[:]},
		}
		for position, validator := range committee {
			sig, err := sim.cfg.Validators.Sign(ctx, validator, data)
			if err != nil {
				return nil, errors.Wrapf(err, "could not sign vote of validator %d", validator)
			}
			bits := bitfield.NewBitlist(uint64(len(committee)))
			bits.SetBitAt(uint64(position), true)
			votes = append(votes, ethpb.NewReceivedAttestation(sim.cfg.PeerID, &ethpb.Attestation{
				AggregationBits: bits,
				Data:            data.Copy(),
				Signature:       sig,
			}))
		}
	}
	return votes, nil
}

func (sim *Simulator) gossip(typ feed.EventType, att *ethpb.ReceivedAttestation, path string) {
	simulatedVotesCount.WithLabelValues(path).Inc()
	ev := &feed.Event{Type: typ}
	if typ == opfeed.AttestationReceived {
		ev.Data = &opfeed.AttestationReceivedData{Attestation: att}
	} else {
		ev.Data = &opfeed.AttestationDelayedData{Attestation: att}
	}
	sim.cfg.OperationNotifier.OperationFeed().Send(ev)
}

// pack takes the latest off-chain aggregates that may still be included at
// the slot, up to MAX_ATTESTATIONS.
func (sim *Simulator) pack(slot primitives.Slot) []*ethpb.Attestation {
	cfg := params.BeaconConfig()
	var packed []*ethpb.Attestation
	for _, att := range sim.toPack {
		if uint64(len(packed)) == cfg.MaxAttestations {
			break
		}
		if att.Data.Slot+cfg.MinAttestationInclusionDelay > slot || slot > att.Data.Slot+cfg.SlotsPerEpoch {
			continue
		}
		packed = append(packed, att.Copy())
	}
	sim.toPack = nil
	sim.included = append(sim.included, packed...)
	packedAggregatesCount.Add(float64(len(packed)))
	return packed
}

// includedAt returns the attestations carried by the chain that are still in
// their inclusion window at the slot, forgetting older ones.
func (sim *Simulator) includedAt(slot primitives.Slot) []*ethpb.Attestation {
	spe := params.BeaconConfig().SlotsPerEpoch
	kept := sim.included[:0]
	for _, att := range sim.included {
		if slot <= att.Data.Slot+spe {
			kept = append(kept, att)
		}
	}
	sim.included = kept
	out := make([]*ethpb.Attestation, len(kept))
	for i, att := range kept {
		out[i] = att.Copy()
	}
	return out
}

func newBlock(slot primitives.Slot, parentRoot [32]byte, atts []*ethpb.Attestation) *ethpb.SignedBeaconBlock {
	if atts == nil {
		atts = []*ethpb.Attestation{}
	}
	return &ethpb.SignedBeaconBlock{
		Block: &ethpb.BeaconBlock{
			Slot:       slot,
			ParentRoot: parentRoot[:],
			StateRoot:  make([]byte, 32),
			Body: &ethpb.BeaconBlockBody{
				RandaoReveal: make([]byte, 96),
				Graffiti:     make([]byte, 32),
				Attestations: atts,
			},
		},
		Signature: make([]byte, 96),
	}
}
