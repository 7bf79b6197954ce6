// Package state contains the chain events fired when blocks are imported and
// the head or the checkpoints of the chain move.
package state

import (
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
)

const (
	// BlockImported is sent after a block has been saved to the block store.
	BlockImported = iota + 1
	// ChainHeadUpdated is sent when a new block becomes the head of the chain.
	ChainHeadUpdated
	// JustifiedCheckpointUpdated is sent when the justified checkpoint changes.
	JustifiedCheckpointUpdated
	// FinalizedCheckpointUpdated is sent when the finalized checkpoint changes.
	FinalizedCheckpointUpdated
)

// BlockImportedData is the data sent with BlockImported events.
type BlockImportedData struct {
	// Slot is the slot of the imported block.
	Slot primitives.Slot
	// BlockRoot of the imported block.
	BlockRoot [32]byte
	// SignedBlock is the imported block.
	SignedBlock *ethpb.SignedBeaconBlock
}

// ChainHeadData is the data sent with ChainHeadUpdated events.
type ChainHeadData struct {
	Slot      primitives.Slot
	BlockRoot [32]byte
	// IncludedAttestations are the attestations already carried by the chain
	// ending at the head, within the inclusion window.
	IncludedAttestations []*ethpb.Attestation
}

// CheckpointData is the data sent with JustifiedCheckpointUpdated and
// FinalizedCheckpointUpdated events.
type CheckpointData struct {
	Checkpoint *ethpb.Checkpoint
}
