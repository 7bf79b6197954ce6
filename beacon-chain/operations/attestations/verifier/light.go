// Package verifier implements the two verification stages of the attestation
// pool: a cheap light verifier run on every incoming attestation, and a batched
// full verifier checking the voted block and the BLS signatures.
package verifier

import (
	"bytes"
	"sync"
	"time"

	"github.com/ethbeacon/attpool/beacon-chain/core/helpers"
	"github.com/ethbeacon/attpool/beacon-chain/core/signing"
	"github.com/ethbeacon/attpool/config/params"
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/time/slots"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

// LightVerifier checks an attestation against the finalized checkpoint and
// the current slot, without touching the block store or the signature.
type LightVerifier struct {
	lock      sync.RWMutex
	finalized *ethpb.Checkpoint
	maxEpoch  primitives.Epoch
	hasSlot   bool
	rejected  *cache.Cache
}

// NewLightVerifier returns a verifier that remembers rejected attestations
// for one epoch.
func NewLightVerifier() *LightVerifier {
	epochDuration := time.Duration(uint64(params.BeaconConfig().SlotsPerEpoch)*params.BeaconConfig().SecondsPerSlot) * time.Second
	return &LightVerifier{
		rejected: cache.New(epochDuration, epochDuration),
	}
}

// FeedFinalizedCheckpoint sets the checkpoint votes are checked against.
func (v *LightVerifier) FeedFinalizedCheckpoint(cp *ethpb.Checkpoint) {
	if cp == nil {
		return
	}
	v.lock.Lock()
	defer v.lock.Unlock()
	v.finalized = cp.Copy()
}

// FeedNewSlot moves the highest accepted target epoch to the epoch of the
// slot plus the lookahead.
func (v *LightVerifier) FeedNewSlot(slot primitives.Slot) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.maxEpoch = slots.ToEpoch(slot) + params.BeaconConfig().MaxAttestationLookahead
	v.hasSlot = true
}

// Initialized reports whether both a finalized checkpoint and a slot were fed.
func (v *LightVerifier) Initialized() bool {
	v.lock.RLock()
	defer v.lock.RUnlock()
	return v.finalized != nil && v.hasSlot
}

// Verify returns nil if the attestation passes every light check. Attestations
// that fail for a reason that cannot change with time are remembered and
// rejected early when seen again.
func (v *LightVerifier) Verify(received *ethpb.ReceivedAttestation) error {
	v.lock.RLock()
	finalized, maxEpoch, ready := v.finalized, v.maxEpoch, v.finalized != nil && v.hasSlot
	v.lock.RUnlock()
	if !ready {
		lightUninitializedCount.Inc()
		return ErrNotInitialized
	}
	if received == nil {
		return errors.Wrap(ErrMalformedAttestation, "nil received attestation")
	}
	att := received.Attestation
	if err := sanityCheck(att); err != nil {
		lightRejectedCount.WithLabelValues("malformed").Inc()
		return err
	}
	fingerprint, err := att.HashTreeRoot()
	if err != nil {
		lightRejectedCount.WithLabelValues("malformed").Inc()
		return errors.Wrap(ErrMalformedAttestation, err.Error())
	}
	key := string(fingerprint[:])
	if _, ok := v.rejected.Get(key); ok {
		lightRejectedCount.WithLabelValues("recently_rejected").Inc()
		return ErrRecentlyRejected
	}
	if err := checkVote(att.Data, finalized, maxEpoch); err != nil {
		lightRejectedCount.WithLabelValues(reason(err)).Inc()
		if !errors.Is(err, ErrTargetTooFarAhead) {
			v.rejected.SetDefault(key, struct{}{})
		}
		return err
	}
	return nil
}

func sanityCheck(att *ethpb.Attestation) error {
	if err := helpers.ValidateNilAttestation(att); err != nil {
		return errors.Wrap(ErrMalformedAttestation, err.Error())
	}
	if att.AggregationBits.Len() == 0 || att.AggregationBits.Count() == 0 {
		return errors.Wrap(ErrMalformedAttestation, "no aggregation bits set")
	}
	if len(att.Signature) != params.BeaconConfig().BLSSignatureLength {
		return errors.Wrapf(ErrMalformedAttestation, "signature has %d bytes", len(att.Signature))
	}
	if att.AggregationBits.Len() > params.BeaconConfig().MaxValidatorsPerCommittee {
		return errors.Wrapf(ErrBitlistTooLong, "%d bits", att.AggregationBits.Len())
	}
	return nil
}

func checkVote(data *ethpb.AttestationData, finalized *ethpb.Checkpoint, maxEpoch primitives.Epoch) error {
	source, target := data.Source, data.Target
	if source.Epoch >= target.Epoch {
		return errors.Wrapf(ErrSourceNotBeforeTarget, "source %d, target %d", source.Epoch, target.Epoch)
	}
	if target.Epoch <= finalized.Epoch {
		return errors.Wrapf(ErrTargetNotAfterFinalized, "target %d, finalized %d", target.Epoch, finalized.Epoch)
	}
	if source.Epoch < finalized.Epoch {
		return errors.Wrapf(ErrSourceBeforeFinalized, "source %d, finalized %d", source.Epoch, finalized.Epoch)
	}
	if source.Epoch == finalized.Epoch && !bytes.Equal(source.Root, finalized.Root) {
		return ErrSourceRootMismatch
	}
	if target.Epoch > maxEpoch {
		return errors.Wrapf(ErrTargetTooFarAhead, "target %d, max %d", target.Epoch, maxEpoch)
	}
	if uint64(data.CommitteeIndex) >= params.BeaconConfig().MaxCommitteesPerSlot {
		return errors.Wrapf(ErrCommitteeIndexOutOfRange, "index %d", data.CommitteeIndex)
	}
	if err := helpers.ValidateSlotTargetEpoch(data); err != nil {
		return errors.Wrap(ErrSlotTargetMismatch, err.Error())
	}
	return nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrSourceNotBeforeTarget):
		return "source_not_before_target"
	case errors.Is(err, ErrTargetNotAfterFinalized):
		return "target_finalized"
	case errors.Is(err, ErrSourceBeforeFinalized):
		return "source_before_finalized"
	case errors.Is(err, ErrSourceRootMismatch):
		return "source_root_mismatch"
	case errors.Is(err, ErrTargetTooFarAhead):
		return "target_too_far_ahead"
	case errors.Is(err, ErrCommitteeIndexOutOfRange):
		return "committee_index"
	case errors.Is(err, ErrSlotTargetMismatch):
		return "slot_target_mismatch"
	case errors.Is(err, signing.ErrSigFailedToVerify):
		return "signature"
	case errors.Is(err, ErrUnknownBlock):
		return "unknown_block"
	case errors.Is(err, ErrBlockAfterTarget):
		return "block_after_target"
	case errors.Is(err, ErrTargetRootMismatch):
		return "target_root_mismatch"
	default:
		return "other"
	}
}
