// Package operation contains the events exchanged by the attestation pool and
// the delay queues while attestations and blocks wait on missing dependencies.
package operation

import (
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
)

const (
	// AttestationReceived is sent when an attestation arrives from the network.
	AttestationReceived = iota + 1
	// AttestationDelayedBySlot is sent for an attestation whose slot has not started yet.
	AttestationDelayedBySlot
	// AttestationTargetEpochNotReached is sent for an attestation whose target epoch has not started yet.
	AttestationTargetEpochNotReached
	// AttestationBlockRootMissing is sent for an attestation voting for a block that is not imported.
	AttestationBlockRootMissing
	// BlockParentMissing is sent for a block whose parent is not imported.
	BlockParentMissing
	// AttestationBatchDequeued is sent when a delay queue releases attestations.
	AttestationBatchDequeued
	// BlockBatchDequeued is sent when the parent of pending blocks gets imported.
	BlockBatchDequeued
)

// DequeueReason names the delay queue that released a batch.
type DequeueReason int

const (
	// DequeuedBySlot is a release on the slot tick following the vote slot.
	DequeuedBySlot DequeueReason = iota
	// DequeuedByTargetEpoch is a release on the first slot of the target epoch.
	DequeuedByTargetEpoch
	// DequeuedByBlockRoot is a release on import of the voted block.
	DequeuedByBlockRoot
)

// String --
func (r DequeueReason) String() string {
	switch r {
	case DequeuedBySlot:
		return "slot"
	case DequeuedByTargetEpoch:
		return "target_epoch"
	case DequeuedByBlockRoot:
		return "block_root"
	default:
		return "unknown"
	}
}

// AttestationReceivedData is the data sent with AttestationReceived events.
type AttestationReceivedData struct {
	Attestation *ethpb.ReceivedAttestation
}

// AttestationDelayedData is the data sent with AttestationDelayedBySlot,
// AttestationTargetEpochNotReached and AttestationBlockRootMissing events.
type AttestationDelayedData struct {
	Attestation *ethpb.ReceivedAttestation
}

// BlockParentMissingData is the data sent with BlockParentMissing events.
type BlockParentMissingData struct {
	Block *ethpb.SignedBeaconBlock
}

// AttestationBatchDequeuedData is the data sent with AttestationBatchDequeued events.
type AttestationBatchDequeuedData struct {
	Reason       DequeueReason
	Attestations []*ethpb.ReceivedAttestation
}

// BlockBatchDequeuedData is the data sent with BlockBatchDequeued events.
type BlockBatchDequeuedData struct {
	ParentRoot [32]byte
	Blocks     []*ethpb.SignedBeaconBlock
}
