package eth

import (
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	ssz "github.com/ferranbt/fastssz"
)

// IMPORTANT
// The methods in this file are hand-written SSZ routines for the block
// containers. Only the fixed size headers are serialized, blocks are hashed.

const (
	graffitiLength = 32
	// MaxAttestations bounds the attestation list of a block body.
	MaxAttestations = 128

	beaconBlockHeaderSize       = 8 + 8 + 32 + 32 + 32
	signedBeaconBlockHeaderSize = beaconBlockHeaderSize + signatureLength
)

// HashTreeRoot ssz hashes the BeaconBlockBody object
func (b *BeaconBlockBody) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(b)
}

// HashTreeRootWith ssz hashes the BeaconBlockBody object with a hasher
func (b *BeaconBlockBody) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()

	// Field (0) 'RandaoReveal'
	if len(b.RandaoReveal) != signatureLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(b.RandaoReveal)

	// Field (1) 'Graffiti'
	if len(b.Graffiti) != graffitiLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(b.Graffiti)

	// Field (2) 'Attestations'
	{
		subIndx := hh.Index()
		num := uint64(len(b.Attestations))
		if num > MaxAttestations {
			return ssz.ErrIncorrectListSize
		}
		for _, elem := range b.Attestations {
			if err := elem.HashTreeRootWith(hh); err != nil {
				return err
			}
		}
		hh.MerkleizeWithMixin(subIndx, num, MaxAttestations)
	}

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the BeaconBlock object
func (b *BeaconBlock) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(b)
}

// HashTreeRootWith ssz hashes the BeaconBlock object with a hasher
func (b *BeaconBlock) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()

	// Field (0) 'Slot'
	hh.PutUint64(uint64(b.Slot))

	// Field (1) 'ProposerIndex'
	hh.PutUint64(uint64(b.ProposerIndex))

	// Field (2) 'ParentRoot'
	if len(b.ParentRoot) != rootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(b.ParentRoot)

	// Field (3) 'StateRoot'
	if len(b.StateRoot) != rootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(b.StateRoot)

	// Field (4) 'Body'
	if b.Body == nil {
		b.Body = new(BeaconBlockBody)
	}
	if err := b.Body.HashTreeRootWith(hh); err != nil {
		return err
	}

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the BeaconBlockHeader object
func (h *BeaconBlockHeader) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(h)
}

// HashTreeRootWith ssz hashes the BeaconBlockHeader object with a hasher
func (h *BeaconBlockHeader) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()

	// Field (0) 'Slot'
	hh.PutUint64(uint64(h.Slot))

	// Field (1) 'ProposerIndex'
	hh.PutUint64(uint64(h.ProposerIndex))

	// Field (2) 'ParentRoot'
	if len(h.ParentRoot) != rootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(h.ParentRoot)

	// Field (3) 'StateRoot'
	if len(h.StateRoot) != rootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(h.StateRoot)

	// Field (4) 'BodyRoot'
	if len(h.BodyRoot) != rootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(h.BodyRoot)

	hh.Merkleize(indx)
	return nil
}

// MarshalSSZ ssz marshals the BeaconBlockHeader object
func (h *BeaconBlockHeader) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(h)
}

// MarshalSSZTo ssz marshals the BeaconBlockHeader object to a target array
func (h *BeaconBlockHeader) MarshalSSZTo(buf []byte) (dst []byte, err error) {
	dst = buf

	// Field (0) 'Slot'
	dst = ssz.MarshalUint64(dst, uint64(h.Slot))

	// Field (1) 'ProposerIndex'
	dst = ssz.MarshalUint64(dst, uint64(h.ProposerIndex))

	// Field (2) 'ParentRoot'
	if len(h.ParentRoot) != rootLength {
		return nil, ssz.ErrBytesLength
	}
	dst = append(dst, h.ParentRoot...)

	// Field (3) 'StateRoot'
	if len(h.StateRoot) != rootLength {
		return nil, ssz.ErrBytesLength
	}
	dst = append(dst, h.StateRoot...)

	// Field (4) 'BodyRoot'
	if len(h.BodyRoot) != rootLength {
		return nil, ssz.ErrBytesLength
	}
	dst = append(dst, h.BodyRoot...)

	return dst, nil
}

// UnmarshalSSZ ssz unmarshals the BeaconBlockHeader object
func (h *BeaconBlockHeader) UnmarshalSSZ(buf []byte) error {
	if len(buf) != beaconBlockHeaderSize {
		return ssz.ErrSize
	}

	// Field (0) 'Slot'
	h.Slot = primitives.Slot(ssz.UnmarshallUint64(buf[0:8]))

	// Field (1) 'ProposerIndex'
	h.ProposerIndex = primitives.ValidatorIndex(ssz.UnmarshallUint64(buf[8:16]))

	// Field (2) 'ParentRoot'
	h.ParentRoot = append(h.ParentRoot[:0], buf[16:48]...)

	// Field (3) 'StateRoot'
	h.StateRoot = append(h.StateRoot[:0], buf[48:80]...)

	// Field (4) 'BodyRoot'
	h.BodyRoot = append(h.BodyRoot[:0], buf[80:112]...)

	return nil
}

// SizeSSZ returns the ssz encoded size in bytes for the BeaconBlockHeader object
func (h *BeaconBlockHeader) SizeSSZ() int {
	return beaconBlockHeaderSize
}

// HashTreeRoot ssz hashes the SignedBeaconBlockHeader object
func (s *SignedBeaconBlockHeader) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(s)
}

// HashTreeRootWith ssz hashes the SignedBeaconBlockHeader object with a hasher
func (s *SignedBeaconBlockHeader) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()

	// Field (0) 'Header'
	if s.Header == nil {
		s.Header = new(BeaconBlockHeader)
	}
	if err := s.Header.HashTreeRootWith(hh); err != nil {
		return err
	}

	// Field (1) 'Signature'
	if len(s.Signature) != signatureLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(s.Signature)

	hh.Merkleize(indx)
	return nil
}

// MarshalSSZ ssz marshals the SignedBeaconBlockHeader object
func (s *SignedBeaconBlockHeader) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(s)
}

// MarshalSSZTo ssz marshals the SignedBeaconBlockHeader object to a target array
func (s *SignedBeaconBlockHeader) MarshalSSZTo(buf []byte) (dst []byte, err error) {
	dst = buf

	// Field (0) 'Header'
	if s.Header == nil {
		s.Header = new(BeaconBlockHeader)
	}
	if dst, err = s.Header.MarshalSSZTo(dst); err != nil {
		return
	}

	// Field (1) 'Signature'
	if len(s.Signature) != signatureLength {
		return nil, ssz.ErrBytesLength
	}
	dst = append(dst, s.Signature...)

	return dst, nil
}

// UnmarshalSSZ ssz unmarshals the SignedBeaconBlockHeader object
func (s *SignedBeaconBlockHeader) UnmarshalSSZ(buf []byte) error {
	if len(buf) != signedBeaconBlockHeaderSize {
		return ssz.ErrSize
	}

	// Field (0) 'Header'
	if s.Header == nil {
		s.Header = new(BeaconBlockHeader)
	}
	if err := s.Header.UnmarshalSSZ(buf[0:beaconBlockHeaderSize]); err != nil {
		return err
	}

	// Field (1) 'Signature'
	s.Signature = append(s.Signature[:0], buf[beaconBlockHeaderSize:]...)

	return nil
}

// SizeSSZ returns the ssz encoded size in bytes for the SignedBeaconBlockHeader object
func (s *SignedBeaconBlockHeader) SizeSSZ() int {
	return signedBeaconBlockHeaderSize
}
