package eth

import (
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	"github.com/ethbeacon/attpool/encoding/bytesutil"
)

// BeaconBlockBody carries the operations of a block that the attestation pool
// cares about.
type BeaconBlockBody struct {
	RandaoReveal []byte
	Graffiti     []byte
	Attestations []*Attestation
}

// BeaconBlock is an unsigned beacon block.
type BeaconBlock struct {
	Slot          primitives.Slot
	ProposerIndex primitives.ValidatorIndex
	ParentRoot    []byte
	StateRoot     []byte
	Body          *BeaconBlockBody
}

// SignedBeaconBlock is a beacon block with its proposer signature.
type SignedBeaconBlock struct {
	Block     *BeaconBlock
	Signature []byte
}

// BeaconBlockHeader summarises a block; its root equals the block root.
type BeaconBlockHeader struct {
	Slot          primitives.Slot
	ProposerIndex primitives.ValidatorIndex
	ParentRoot    []byte
	StateRoot     []byte
	BodyRoot      []byte
}

// SignedBeaconBlockHeader is a block header with the proposer signature.
type SignedBeaconBlockHeader struct {
	Header    *BeaconBlockHeader
	Signature []byte
}

// Header returns the header of the block, hashing the body.
func (b *BeaconBlock) Header() (*BeaconBlockHeader, error) {
	bodyRoot, err := b.Body.HashTreeRoot()
	if err != nil {
		return nil, err
	}
	return &BeaconBlockHeader{
		Slot:          b.Slot,
		ProposerIndex: b.ProposerIndex,
		ParentRoot:    bytesutil.SafeCopyBytes(b.ParentRoot),
		StateRoot:     bytesutil.SafeCopyBytes(b.StateRoot),
		BodyRoot:      bodyRoot[:],
	}, nil
}

// SignedHeader returns the signed header of the block.
func (b *SignedBeaconBlock) SignedHeader() (*SignedBeaconBlockHeader, error) {
	h, err := b.Block.Header()
	if err != nil {
		return nil, err
	}
	return &SignedBeaconBlockHeader{Header: h, Signature: bytesutil.SafeCopyBytes(b.Signature)}, nil
}
