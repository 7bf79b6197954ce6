// Package eth holds the consensus containers handled by the attestation pool
// together with their SSZ hashing and copy helpers.
package eth

import (
	"bytes"

	"github.com/ethbeacon/attpool/consensus-types/primitives"
	"github.com/ethbeacon/attpool/encoding/bytesutil"
	"github.com/prysmaticlabs/go-bitfield"
)

// Checkpoint is an (epoch, block root) pair used by the finality gadget.
type Checkpoint struct {
	Epoch primitives.Epoch
	Root  []byte
}

// AttestationData is the content a validator votes on.
type AttestationData struct {
	Slot            primitives.Slot
	CommitteeIndex  primitives.CommitteeIndex
	BeaconBlockRoot []byte
	Source          *Checkpoint
	Target          *Checkpoint
}

// Attestation is a signed vote over AttestationData by the committee members
// whose positions are set in AggregationBits.
type Attestation struct {
	AggregationBits bitfield.Bitlist
	Data            *AttestationData
	Signature       []byte
}

// Copy --
func (cp *Checkpoint) Copy() *Checkpoint {
	if cp == nil {
		return nil
	}
	return &Checkpoint{
		Epoch: cp.Epoch,
		Root:  bytesutil.SafeCopyBytes(cp.Root),
	}
}

// Equal reports whether both checkpoints carry the same epoch and root.
func (cp *Checkpoint) Equal(other *Checkpoint) bool {
	if cp == nil || other == nil {
		return cp == other
	}
	return cp.Epoch == other.Epoch && bytes.Equal(cp.Root, other.Root)
}

// Copy --
func (attData *AttestationData) Copy() *AttestationData {
	if attData == nil {
		return nil
	}
	return &AttestationData{
		Slot:            attData.Slot,
		CommitteeIndex:  attData.CommitteeIndex,
		BeaconBlockRoot: bytesutil.SafeCopyBytes(attData.BeaconBlockRoot),
		Source:          attData.Source.Copy(),
		Target:          attData.Target.Copy(),
	}
}

// Equal reports whether both votes have identical content.
func (attData *AttestationData) Equal(other *AttestationData) bool {
	if attData == nil || other == nil {
		return attData == other
	}
	return attData.Slot == other.Slot &&
		attData.CommitteeIndex == other.CommitteeIndex &&
		bytes.Equal(attData.BeaconBlockRoot, other.BeaconBlockRoot) &&
		attData.Source.Equal(other.Source) &&
		attData.Target.Equal(other.Target)
}

// Copy --
func (att *Attestation) Copy() *Attestation {
	if att == nil {
		return nil
	}
	return &Attestation{
		AggregationBits: bytesutil.SafeCopyBytes(att.AggregationBits),
		Data:            att.Data.Copy(),
		Signature:       bytesutil.SafeCopyBytes(att.Signature),
	}
}

// GetData --
func (att *Attestation) GetData() *AttestationData {
	if att == nil {
		return nil
	}
	return att.Data
}

// TargetEpoch returns the epoch of the vote's target checkpoint, zero when unset.
func (att *Attestation) TargetEpoch() primitives.Epoch {
	if att == nil || att.Data == nil || att.Data.Target == nil {
		return 0
	}
	return att.Data.Target.Epoch
}

// BlockRoot returns the beacon block root referenced by the vote.
func (att *Attestation) BlockRoot() [32]byte {
	if att == nil || att.Data == nil {
		return [32]byte{}
	}
	return bytesutil.ToBytes32(att.Data.BeaconBlockRoot)
}
