package util

import (
	"github.com/ethbeacon/attpool/config/params"
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
)

// NewBeaconBlock creates a beacon block with minimum marshalable fields.
func NewBeaconBlock() *ethpb.SignedBeaconBlock {
	return &ethpb.SignedBeaconBlock{
		Block: &ethpb.BeaconBlock{
			ParentRoot: make([]byte, 32),
			StateRoot:  make([]byte, 32),
			Body: &ethpb.BeaconBlockBody{
				RandaoReveal: make([]byte, 96),
				Graffiti:     make([]byte, 32),
				Attestations: []*ethpb.Attestation{},
			},
		},
		Signature: make([]byte, 96),
	}
}

// NewBeaconBlockAtSlot creates a minimal block at the given slot with the
// given parent. The graffiti makes blocks of the same slot distinct.
func NewBeaconBlockAtSlot(slot primitives.Slot, parentRoot [32]byte, graffiti string) *ethpb.SignedBeaconBlock {
	b := NewBeaconBlock()
	b.Block.Slot = slot
	b.Block.ParentRoot = parentRoot[:]
	copy(b.Block.Body.Graffiti, graffiti)
	return b
}

// HydrateSignedBeaconHeader hydrates a signed beacon block header with correct field length sizes
// to comply with fssz marshalling and unmarshalling rules.
func HydrateSignedBeaconHeader(h *ethpb.SignedBeaconBlockHeader) *ethpb.SignedBeaconBlockHeader {
	if h.Signature == nil {
		h.Signature = make([]byte, params.BeaconConfig().BLSSignatureLength)
	}
	h.Header = HydrateBeaconHeader(h.Header)
	return h
}

// HydrateBeaconHeader hydrates a beacon block header with correct field length sizes
// to comply with fssz marshalling and unmarshalling rules.
func HydrateBeaconHeader(h *ethpb.BeaconBlockHeader) *ethpb.BeaconBlockHeader {
	if h == nil {
		h = &ethpb.BeaconBlockHeader{}
	}
	if h.BodyRoot == nil {
		h.BodyRoot = make([]byte, 32)
	}
	if h.StateRoot == nil {
		h.StateRoot = make([]byte, 32)
	}
	if h.ParentRoot == nil {
		h.ParentRoot = make([]byte, 32)
	}
	return h
}

// HydrateSignedBeaconBlock hydrates a signed beacon block with correct field length sizes
// to comply with fssz marshalling and unmarshalling rules.
func HydrateSignedBeaconBlock(b *ethpb.SignedBeaconBlock) *ethpb.SignedBeaconBlock {
	if b.Signature == nil {
		b.Signature = make([]byte, params.BeaconConfig().BLSSignatureLength)
	}
	if b.Block == nil {
		b.Block = &ethpb.BeaconBlock{}
	}
	if b.Block.ParentRoot == nil {
		b.Block.ParentRoot = make([]byte, 32)
	}
	if b.Block.StateRoot == nil {
		b.Block.StateRoot = make([]byte, 32)
	}
	if b.Block.Body == nil {
		b.Block.Body = &ethpb.BeaconBlockBody{}
	}
	if b.Block.Body.RandaoReveal == nil {
		b.Block.Body.RandaoReveal = make([]byte, params.BeaconConfig().BLSSignatureLength)
	}
	if b.Block.Body.Graffiti == nil {
		b.Block.Body.Graffiti = make([]byte, 32)
	}
	return b
}
