package pending

import (
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/proto/prysm/v1alpha1/attestation"
	"github.com/ethbeacon/attpool/time/slots"
	"github.com/pkg/errors"
)

var errNilAttestation = errors.New("nil attestation")

func attestationID(att *ethpb.ReceivedAttestation) ([32]byte, error) {
	if att == nil || att.Attestation == nil || att.Attestation.Data == nil {
		return [32]byte{}, errNilAttestation
	}
	return attestation.NewId(att.Attestation, attestation.Full)
}

func flatten(batches [][]*ethpb.ReceivedAttestation) []*ethpb.ReceivedAttestation {
	var out []*ethpb.ReceivedAttestation
	for _, b := range batches {
		out = append(out, b...)
	}
	return out
}

func slotLess(a, b primitives.Slot) bool { return a < b }

// AttestationsBySlot holds attestations until the slot they vote in is over.
type AttestationsBySlot struct {
	queue *keyedQueue[primitives.Slot, *ethpb.ReceivedAttestation]
}

// NewAttestationsBySlot --
func NewAttestationsBySlot() *AttestationsBySlot {
	return &AttestationsBySlot{queue: newKeyedQueue[primitives.Slot]("attestations_by_slot", attestationID)}
}

// Add queues att under its vote slot.
func (q *AttestationsBySlot) Add(att *ethpb.ReceivedAttestation) (bool, error) {
	if _, err := attestationID(att); err != nil {
		return false, err
	}
	return q.queue.add(att.Attestation.Data.Slot, att)
}

// OnTick releases the attestations of every slot before the given one, oldest
// slot first.
func (q *AttestationsBySlot) OnTick(slot primitives.Slot) []*ethpb.ReceivedAttestation {
	return flatten(q.queue.takeWhere(func(k primitives.Slot) bool { return k < slot }, slotLess))
}

// Len returns the number of queued attestations.
func (q *AttestationsBySlot) Len() int {
	return q.queue.len()
}

// AttestationsByTargetEpoch holds attestations until their target epoch starts.
type AttestationsByTargetEpoch struct {
	queue *keyedQueue[primitives.Slot, *ethpb.ReceivedAttestation]
}

// NewAttestationsByTargetEpoch --
func NewAttestationsByTargetEpoch() *AttestationsByTargetEpoch {
	return &AttestationsByTargetEpoch{queue: newKeyedQueue[primitives.Slot]("attestations_by_target_epoch", attestationID)}
}

// Add queues att under the start slot of its target epoch.
func (q *AttestationsByTargetEpoch) Add(att *ethpb.ReceivedAttestation) (bool, error) {
	if _, err := attestationID(att); err != nil {
		return false, err
	}
	if att.Attestation.Data.Target == nil {
		return false, errors.New("attestation has no target")
	}
	return q.queue.add(slots.EpochStart(att.Attestation.Data.Target.Epoch), att)
}

// OnTick releases the attestations whose target epoch starts at the given
// slot. Buckets of earlier epochs are released too, so a missed tick cannot
// strand them.
func (q *AttestationsByTargetEpoch) OnTick(slot primitives.Slot) []*ethpb.ReceivedAttestation {
	return flatten(q.queue.takeWhere(func(k primitives.Slot) bool { return k <= slot }, slotLess))
}

// Len returns the number of queued attestations.
func (q *AttestationsByTargetEpoch) Len() int {
	return q.queue.len()
}

// AttestationsByBlockRoot holds attestations until the block they vote for
// is imported.
type AttestationsByBlockRoot struct {
	queue *keyedQueue[[32]byte, *ethpb.ReceivedAttestation]
}

// NewAttestationsByBlockRoot --
func NewAttestationsByBlockRoot() *AttestationsByBlockRoot {
	return &AttestationsByBlockRoot{queue: newKeyedQueue[[32]byte]("attestations_by_block_root", attestationID)}
}

// Add queues att under its voted block root.
func (q *AttestationsByBlockRoot) Add(att *ethpb.ReceivedAttestation) (bool, error) {
	if _, err := attestationID(att); err != nil {
		return false, err
	}
	return q.queue.add(att.Attestation.BlockRoot(), att)
}

// OnBlockImported releases the attestations voting for the block.
func (q *AttestationsByBlockRoot) OnBlockImported(root [32]byte) []*ethpb.ReceivedAttestation {
	return q.queue.take(root)
}

// Len returns the number of queued attestations.
func (q *AttestationsByBlockRoot) Len() int {
	return q.queue.len()
}
