// Package attestations defines the attestation pool service of the beacon
// node. Incoming attestations go through a light verifier, the dedup
// registry, the unknown block gate and a batched full verifier before being
// published as valid and handed to the churn, which turns them into
// off-chain aggregates for every new head.
package attestations

import (
	"context"
	"sync"
	"time"

	"github.com/ethbeacon/attpool/beacon-chain/core/feed"
	opfeed "github.com/ethbeacon/attpool/beacon-chain/core/feed/operation"
	statefeed "github.com/ethbeacon/attpool/beacon-chain/core/feed/state"
	"github.com/ethbeacon/attpool/beacon-chain/db"
	"github.com/ethbeacon/attpool/beacon-chain/db/iface"
	"github.com/ethbeacon/attpool/beacon-chain/operations/attestations/churn"
	"github.com/ethbeacon/attpool/beacon-chain/operations/attestations/registry"
	"github.com/ethbeacon/attpool/beacon-chain/operations/attestations/verifier"
	"github.com/ethbeacon/attpool/config/params"
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/time/slots"
	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config options for the service.
type Config struct {
	BeaconDB          iface.ReadOnlyDatabase
	CommitteeSource   verifier.CommitteeSource
	StateNotifier     statefeed.Notifier
	OperationNotifier opfeed.Notifier
	// GenesisTime is used to derive the current slot on start and to create
	// the slot ticker when none is given.
	GenesisTime time.Time
	SlotTicker  slots.Ticker
}

// Service of attestation pool operations.
type Service struct {
	cfg    *Config
	ctx    context.Context
	cancel context.CancelFunc
	err    error

	light     *verifier.LightVerifier
	full      *verifier.FullVerifier
	processed *registry.ProcessedAttestations
	unknown   *registry.UnknownBlockPool
	churn     *churn.Churn

	inbound    chan *ethpb.ReceivedAttestation
	checked    chan *ethpb.ReceivedAttestation
	identified chan *ethpb.ReceivedAttestation
	verified   chan []*ethpb.ReceivedAttestation
	newSlots   chan primitives.Slot
	imported   chan *ethpb.SignedBeaconBlock

	valid        chan *ethpb.ReceivedAttestation
	invalid      chan *ethpb.ReceivedAttestation
	unknownBlock chan *ethpb.ReceivedAttestation
	aggregates   chan *churn.OffChainAggregates

	loops   sync.WaitGroup
	flushes sync.WaitGroup
}

// NewService instantiates a new attestation pool service instance that will
// be registered into a running beacon node.
func NewService(ctx context.Context, cfg *Config) (*Service, error) {
	switch {
	case cfg == nil:
		return nil, errors.New("nil config")
	case cfg.BeaconDB == nil:
		return nil, errors.New("nil beacon db")
	case cfg.CommitteeSource == nil:
		return nil, errors.New("nil committee source")
	case cfg.StateNotifier == nil || cfg.OperationNotifier == nil:
		return nil, errors.New("nil event notifier")
	}
	c := params.BeaconConfig()
	processed, err := registry.NewProcessedAttestations(c.MaxProcessedAttestations)
	if err != nil {
		return nil, err
	}
	ch, err := churn.New(c.MaxChurnAttestations)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	return &Service{
		cfg:          cfg,
		ctx:          ctx,
		cancel:       cancel,
		light:        verifier.NewLightVerifier(),
		full:         verifier.NewFullVerifier(cfg.BeaconDB, cfg.CommitteeSource, c.MaxVerifierThreads),
		processed:    processed,
		unknown:      registry.NewUnknownBlockPool(cfg.BeaconDB, c.MaxAttestationLookahead, c.MaxUnknownAttestations),
		churn:        ch,
		inbound:      make(chan *ethpb.ReceivedAttestation, c.VerifierBufferSize),
		checked:      make(chan *ethpb.ReceivedAttestation, c.VerifierBufferSize),
		identified:   make(chan *ethpb.ReceivedAttestation, c.VerifierBufferSize),
		verified:     make(chan []*ethpb.ReceivedAttestation, 1),
		newSlots:     make(chan primitives.Slot),
		imported:     make(chan *ethpb.SignedBeaconBlock, 1),
		valid:        make(chan *ethpb.ReceivedAttestation, c.VerifierBufferSize),
		invalid:      make(chan *ethpb.ReceivedAttestation, c.VerifierBufferSize),
		unknownBlock: make(chan *ethpb.ReceivedAttestation, c.VerifierBufferSize),
		aggregates:   make(chan *churn.OffChainAggregates, 16),
	}, nil
}

// Start an attestation pool service's main event loops.
func (s *Service) Start() {
	if s.cfg.SlotTicker == nil {
		if s.cfg.GenesisTime.IsZero() {
			s.err = errors.New("no genesis time nor slot ticker configured")
			log.WithError(s.err).Error("Could not start attestation pool")
			return
		}
		s.cfg.SlotTicker = slots.NewSlotTicker(s.cfg.GenesisTime, params.BeaconConfig().SecondsPerSlot)
	}

	finalized, err := s.cfg.BeaconDB.FinalizedCheckpoint(s.ctx)
	switch {
	case err == nil:
		s.feedFinalized(finalized)
	case errors.Is(err, db.ErrNotFound):
		log.Info("No finalized checkpoint yet, waiting for the chain to publish one")
	default:
		s.err = errors.Wrap(err, "could not read finalized checkpoint")
		log.WithError(s.err).Error("Could not start attestation pool")
		return
	}

	stateChannel := make(chan *feed.Event, 16)
	stateSub := s.cfg.StateNotifier.StateFeed().Subscribe(stateChannel)
	opChannel := make(chan *feed.Event, 256)
	opSub := s.cfg.OperationNotifier.OperationFeed().Subscribe(opChannel)

	s.loops.Add(4)
	go s.registryLoop()
	go s.lightLoop()
	go s.batchLoop()
	go s.eventLoop(stateSub, opSub, stateChannel, opChannel)
}

// Stop the attestation pool service's loops and wait for running
// verification batches.
func (s *Service) Stop() error {
	s.cancel()
	s.loops.Wait()
	s.flushes.Wait()
	s.full.Stop()
	if s.cfg.SlotTicker != nil {
		s.cfg.SlotTicker.Done()
	}
	return nil
}

// Status returns the current service err if there's any.
func (s *Service) Status() error {
	if s.err != nil {
		return s.err
	}
	return nil
}

// Inbound accepts attestations received from the network.
func (s *Service) Inbound() chan<- *ethpb.ReceivedAttestation {
	return s.inbound
}

// Valid publishes attestations that passed every check, once each.
func (s *Service) Valid() <-chan *ethpb.ReceivedAttestation {
	return s.valid
}

// Invalid publishes rejected attestations.
func (s *Service) Invalid() <-chan *ethpb.ReceivedAttestation {
	return s.invalid
}

// UnknownBlock publishes attestations parked until their block is imported.
func (s *Service) UnknownBlock() <-chan *ethpb.ReceivedAttestation {
	return s.unknownBlock
}

// Aggregates publishes the off-chain aggregates computed for every new head.
func (s *Service) Aggregates() <-chan *churn.OffChainAggregates {
	return s.aggregates
}

func (s *Service) eventLoop(stateSub, opSub event.Subscription, stateChannel, opChannel chan *feed.Event) {
	defer s.loops.Done()
	defer stateSub.Unsubscribe()
	defer opSub.Unsubscribe()

	if !s.cfg.GenesisTime.IsZero() {
		s.feedSlot(slots.CurrentSlot(s.cfg.GenesisTime))
	}
	for {
		select {
		case <-s.ctx.Done():
			return
		case slot := <-s.cfg.SlotTicker.C():
			s.feedSlot(slot)
		case ev := <-stateChannel:
			s.handleStateEvent(ev)
		case ev := <-opChannel:
			s.handleOperationEvent(ev)
		case err := <-stateSub.Err():
			log.WithError(err).Error("Subscription to state notifier failed")
			s.err = err
			return
		case err := <-opSub.Err():
			log.WithError(err).Error("Subscription to operation notifier failed")
			s.err = err
			return
		}
	}
}

// feedSlot hands the slot to the registry before the light verifier, so that
// nothing reaches the unknown block pool before it has a window.
func (s *Service) feedSlot(slot primitives.Slot) {
	select {
	case s.newSlots <- slot:
	case <-s.ctx.Done():
		return
	}
	s.light.FeedNewSlot(slot)
	s.churn.FeedNewSlot(slot)
}

func (s *Service) feedFinalized(cp *ethpb.Checkpoint) {
	s.light.FeedFinalizedCheckpoint(cp)
	s.churn.FeedFinalizedCheckpoint(cp)
}

func (s *Service) handleStateEvent(ev *feed.Event) {
	switch ev.Type {
	case statefeed.BlockImported:
		data, ok := ev.Data.(*statefeed.BlockImportedData)
		if !ok || data.SignedBlock == nil {
			log.Error("Event feed data is not type *statefeed.BlockImportedData")
			return
		}
		select {
		case s.imported <- data.SignedBlock:
		case <-s.ctx.Done():
		}
	case statefeed.ChainHeadUpdated:
		data, ok := ev.Data.(*statefeed.ChainHeadData)
		if !ok {
			log.Error("Event feed data is not type *statefeed.ChainHeadData")
			return
		}
		aggregates, err := s.churn.Compute(s.ctx, data)
		if err != nil {
			log.WithError(err).Error("Could not compute off-chain aggregates")
			return
		}
		select {
		case s.aggregates <- aggregates:
		default:
			outputDroppedCount.WithLabelValues("aggregates").Inc()
		}
	case statefeed.JustifiedCheckpointUpdated:
		data, ok := ev.Data.(*statefeed.CheckpointData)
		if !ok {
			log.Error("Event feed data is not type *statefeed.CheckpointData")
			return
		}
		s.churn.FeedJustifiedCheckpoint(data.Checkpoint)
	case statefeed.FinalizedCheckpointUpdated:
		data, ok := ev.Data.(*statefeed.CheckpointData)
		if !ok {
			log.Error("Event feed data is not type *statefeed.CheckpointData")
			return
		}
		s.feedFinalized(data.Checkpoint)
	}
}

func (s *Service) handleOperationEvent(ev *feed.Event) {
	switch ev.Type {
	case opfeed.AttestationReceived:
		data, ok := ev.Data.(*opfeed.AttestationReceivedData)
		if !ok || data.Attestation == nil {
			log.Error("Event feed data is not type *operation.AttestationReceivedData")
			return
		}
		select {
		case s.inbound <- data.Attestation:
		case <-s.ctx.Done():
		}
	case opfeed.AttestationBatchDequeued:
		data, ok := ev.Data.(*opfeed.AttestationBatchDequeuedData)
		if !ok {
			log.Error("Event feed data is not type *operation.AttestationBatchDequeuedData")
			return
		}
		s.reinject(data.Reason.String(), data.Attestations)
	}
}

// reinject feeds delayed attestations back to inbound without blocking the
// caller, which may be the loop draining inbound further down.
func (s *Service) reinject(source string, atts []*ethpb.ReceivedAttestation) {
	if len(atts) == 0 {
		return
	}
	reinjectedCount.WithLabelValues(source).Add(float64(len(atts)))
	go func() {
		for _, att := range atts {
			select {
			case s.inbound <- att:
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

func (s *Service) lightLoop() {
	defer s.loops.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case att := <-s.inbound:
			if att == nil || att.Attestation == nil {
				continue
			}
			receivedCount.Inc()
			if err := s.light.Verify(att); err != nil {
				if errors.Is(err, verifier.ErrNotInitialized) {
					droppedCount.WithLabelValues("not_initialized").Inc()
					log.WithField("peer", att.PeerID).Debug("Dropping attestation received before the pool was initialized")
					continue
				}
				log.WithError(err).WithField("peer", att.PeerID).Debug("Attestation failed light verification")
				s.publish(s.invalid, att, "invalid")
				continue
			}
			select {
			case s.checked <- att:
			case <-s.ctx.Done():
				return
			}
		}
	}
}

// registryLoop is the only goroutine touching the dedup registry and the
// unknown block pool.
func (s *Service) registryLoop() {
	defer s.loops.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case slot := <-s.newSlots:
			s.unknown.FeedNewSlot(slot)
		case blk := <-s.imported:
			released, err := s.unknown.FeedNewImportedBlock(s.ctx, blk)
			if err != nil {
				if errors.Is(err, registry.ErrPoolNotInitialized) {
					panic(err)
				}
				log.WithError(err).Error("Could not release attestations of imported block")
				continue
			}
			s.reinject("unknown_block", released)
		case att := <-s.checked:
			s.identify(att)
		case batch := <-s.verified:
			s.commit(batch)
		}
	}
}

func (s *Service) identify(att *ethpb.ReceivedAttestation) {
	seen, err := s.processed.Contains(att)
	if err != nil {
		log.WithError(err).Debug("Could not compute attestation fingerprint")
		s.publish(s.invalid, att, "invalid")
		return
	}
	if seen {
		droppedCount.WithLabelValues("duplicate").Inc()
		return
	}
	parked, err := s.unknown.Add(s.ctx, att)
	if errors.Is(err, registry.ErrOutsideWindow) {
		droppedCount.WithLabelValues("outside_window").Inc()
		return
	}
	if err != nil {
		if errors.Is(err, registry.ErrPoolNotInitialized) {
			panic(err)
		}
		log.WithError(err).Debug("Could not check voted block")
		s.publish(s.invalid, att, "invalid")
		return
	}
	if parked {
		parkedCount.Inc()
		s.publish(s.unknownBlock, att, "unknown_block")
		return
	}
	select {
	case s.identified <- att:
	case <-s.ctx.Done():
	}
}

// commit registers verified attestations. Only the first copy of an
// attestation reaches the churn and the valid output.
func (s *Service) commit(batch []*ethpb.ReceivedAttestation) {
	fresh := make([]*ethpb.ReceivedAttestation, 0, len(batch))
	atts := make([]*ethpb.Attestation, 0, len(batch))
	for _, att := range batch {
		added, err := s.processed.Add(att)
		if err != nil || !added {
			droppedCount.WithLabelValues("duplicate").Inc()
			continue
		}
		fresh = append(fresh, att)
		atts = append(atts, att.Attestation)
	}
	s.churn.Add(atts...)
	processedSize.Set(float64(s.processed.Len()))
	for _, att := range fresh {
		validCount.Inc()
		s.publish(s.valid, att, "valid")
	}
}

func (s *Service) batchLoop() {
	defer s.loops.Done()
	c := params.BeaconConfig()
	ticker := time.NewTicker(c.VerifierInterval())
	defer ticker.Stop()

	batch := make([]*ethpb.ReceivedAttestation, 0, c.VerifierBufferSize)
	for {
		select {
		case <-s.ctx.Done():
			return
		case att := <-s.identified:
			batch = append(batch, att)
			if len(batch) < c.VerifierBufferSize {
				pendingBatchSize.Set(float64(len(batch)))
				continue
			}
		case <-ticker.C:
			if len(batch) == 0 {
				continue
			}
		}
		s.flush(batch)
		batch = make([]*ethpb.ReceivedAttestation, 0, c.VerifierBufferSize)
		pendingBatchSize.Set(0)
	}
}

// flush verifies the batch in the background so that the batch loop keeps
// draining the registry.
func (s *Service) flush(batch []*ethpb.ReceivedAttestation) {
	s.flushes.Add(1)
	go func() {
		defer s.flushes.Done()
		res := s.full.VerifyBatch(s.ctx, batch)
		for _, att := range res.Invalid {
			s.publish(s.invalid, att, "invalid")
		}
		log.WithFields(logrus.Fields{
			"valid":   len(res.Valid),
			"invalid": len(res.Invalid),
		}).Trace("Flushed verification batch")
		if len(res.Valid) == 0 {
			return
		}
		select {
		case s.verified <- res.Valid:
		case <-s.ctx.Done():
		}
	}()
}

func (s *Service) publish(ch chan *ethpb.ReceivedAttestation, att *ethpb.ReceivedAttestation, output string) {
	if ch == s.invalid {
		invalidCount.Inc()
	}
	select {
	case ch <- att:
	default:
		outputDroppedCount.WithLabelValues(output).Inc()
		log.WithField("output", output).Warn("Consumer is behind, dropping attestation")
	}
}
