// Package pending holds attestations and blocks whose processing depends on
// something that has not happened yet: a later slot, the start of the target
// epoch, or the import of a block. Every queue releases its items once, on
// the trigger, by publishing a dequeued event on the operation feed.
package pending

import (
	"context"

	"github.com/ethbeacon/attpool/beacon-chain/core/feed"
	opfeed "github.com/ethbeacon/attpool/beacon-chain/core/feed/operation"
	statefeed "github.com/ethbeacon/attpool/beacon-chain/core/feed/state"
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/time/slots"
	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config options for the service.
type Config struct {
	StateNotifier     statefeed.Notifier
	OperationNotifier opfeed.Notifier
	SlotTicker        slots.Ticker
}

// Service runs the four delay queues.
type Service struct {
	cfg     *Config
	ctx     context.Context
	cancel  context.CancelFunc
	err     error
	started bool
	done    chan struct{}

	bySlot        *AttestationsBySlot
	byTargetEpoch *AttestationsByTargetEpoch
	byBlockRoot   *AttestationsByBlockRoot
	byParent      *BlocksByParent
}

// NewService creates the delay queue service.
func NewService(ctx context.Context, cfg *Config) (*Service, error) {
	if cfg == nil || cfg.StateNotifier == nil || cfg.OperationNotifier == nil || cfg.SlotTicker == nil {
		return nil, errors.New("incomplete pending queue config")
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Service{
		cfg:           cfg,
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
		bySlot:        NewAttestationsBySlot(),
		byTargetEpoch: NewAttestationsByTargetEpoch(),
		byBlockRoot:   NewAttestationsByBlockRoot(),
		byParent:      NewBlocksByParent(),
	}, nil
}

// Start subscribes to the feeds and runs the event loop.
func (s *Service) Start() {
	stateChannel := make(chan *feed.Event, 16)
	stateSub := s.cfg.StateNotifier.StateFeed().Subscribe(stateChannel)
	opChannel := make(chan *feed.Event, 256)
	opSub := s.cfg.OperationNotifier.OperationFeed().Subscribe(opChannel)
	s.started = true
	go s.run(stateSub, opSub, stateChannel, opChannel)
}

// Stop the event loop.
func (s *Service) Stop() error {
	s.cancel()
	if s.started {
		<-s.done
	}
	return nil
}

// Status returns the current service err if there's any.
func (s *Service) Status() error {
	return s.err
}

func (s *Service) run(stateSub, opSub event.Subscription, stateChannel, opChannel chan *feed.Event) {
	defer close(s.done)
	defer stateSub.Unsubscribe()
	defer opSub.Unsubscribe()
	for {
		select {
		case <-s.ctx.Done():
			return
		case slot := <-s.cfg.SlotTicker.C():
			s.onTick(slot)
		case ev := <-stateChannel:
			if ev.Type != statefeed.BlockImported {
				continue
			}
			data, ok := ev.Data.(*statefeed.BlockImportedData)
			if !ok {
				log.Error("Event feed data is not type *statefeed.BlockImportedData")
				continue
			}
			s.onBlockImported(data.BlockRoot)
		case ev := <-opChannel:
			s.onOperation(ev)
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

func (s *Service) onTick(slot primitives.Slot) {
	s.publishAttestations(opfeed.DequeuedBySlot, s.bySlot.OnTick(slot))
	s.publishAttestations(opfeed.DequeuedByTargetEpoch, s.byTargetEpoch.OnTick(slot))
}

func (s *Service) onBlockImported(root [32]byte) {
	s.publishAttestations(opfeed.DequeuedByBlockRoot, s.byBlockRoot.OnBlockImported(root))
	if blocks := s.byParent.OnBlockImported(root); len(blocks) > 0 {
		s.publish(&feed.Event{
			Type: opfeed.BlockBatchDequeued,
			Data: &opfeed.BlockBatchDequeuedData{ParentRoot: root, Blocks: blocks},
		})
	}
}

func (s *Service) onOperation(ev *feed.Event) {
	var err error
	switch ev.Type {
	case opfeed.AttestationDelayedBySlot, opfeed.AttestationTargetEpochNotReached, opfeed.AttestationBlockRootMissing:
		data, ok := ev.Data.(*opfeed.AttestationDelayedData)
		if !ok {
			log.Error("Event feed data is not type *operation.AttestationDelayedData")
			return
		}
		switch ev.Type {
		case opfeed.AttestationDelayedBySlot:
			_, err = s.bySlot.Add(data.Attestation)
		case opfeed.AttestationTargetEpochNotReached:
			_, err = s.byTargetEpoch.Add(data.Attestation)
		default:
			_, err = s.byBlockRoot.Add(data.Attestation)
		}
	case opfeed.BlockParentMissing:
		data, ok := ev.Data.(*opfeed.BlockParentMissingData)
		if !ok {
			log.Error("Event feed data is not type *operation.BlockParentMissingData")
			return
		}
		_, err = s.byParent.Add(data.Block)
	default:
		return
	}
	if err != nil {
		log.WithError(err).Debug("Could not queue delayed item")
	}
}

func (s *Service) publishAttestations(reason opfeed.DequeueReason, atts []*ethpb.ReceivedAttestation) {
	if len(atts) == 0 {
		return
	}
	log.WithFields(logrus.Fields{
		"reason": reason.String(),
		"count":  len(atts),
	}).Debug("Releasing delayed attestations")
	s.publish(&feed.Event{
		Type: opfeed.AttestationBatchDequeued,
		Data: &opfeed.AttestationBatchDequeuedData{Reason: reason, Attestations: atts},
	})
}

// publish sends from another goroutine since this service also reads the
// operation feed it publishes to.
func (s *Service) publish(ev *feed.Event) {
	go s.cfg.OperationNotifier.OperationFeed().Send(ev)
}
