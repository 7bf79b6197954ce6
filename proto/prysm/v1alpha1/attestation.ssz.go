package eth

import (
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	ssz "github.com/ferranbt/fastssz"
	"github.com/pkg/errors"
)

// IMPORTANT
// The methods in this file are hand-written SSZ hashing routines for the
// attestation containers.

const (
	rootLength      = 32
	signatureLength = 96
	checkpointSize  = 8 + rootLength
	// MaxValidatorsPerCommittee bounds the aggregation bitlist.
	MaxValidatorsPerCommittee = 2048
)

// ErrEmptyBitlist is returned when hashing an attestation without its length bit.
var ErrEmptyBitlist = errors.New("aggregation bitlist is empty")

// HashTreeRoot ssz hashes the Checkpoint object
func (c *Checkpoint) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(c)
}

// HashTreeRootWith ssz hashes the Checkpoint object with a hasher
func (c *Checkpoint) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()

	// Field (0) 'Epoch'
	hh.PutUint64(uint64(c.Epoch))

	// Field (1) 'Root'
	if len(c.Root) != rootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(c.Root)

	hh.Merkleize(indx)
	return nil
}

// MarshalSSZ ssz marshals the Checkpoint object
func (c *Checkpoint) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(c)
}

// MarshalSSZTo ssz marshals the Checkpoint object to a target array
func (c *Checkpoint) MarshalSSZTo(buf []byte) (dst []byte, err error) {
	dst = buf

	// Field (0) 'Epoch'
	dst = ssz.MarshalUint64(dst, uint64(c.Epoch))

	// Field (1) 'Root'
	if len(c.Root) != rootLength {
		return nil, ssz.ErrBytesLength
	}
	dst = append(dst, c.Root...)

	return dst, nil
}

// UnmarshalSSZ ssz unmarshals the Checkpoint object
func (c *Checkpoint) UnmarshalSSZ(buf []byte) error {
	if len(buf) != checkpointSize {
		return ssz.ErrSize
	}

	// Field (0) 'Epoch'
	c.Epoch = primitives.Epoch(ssz.UnmarshallUint64(buf[0:8]))

	// Field (1) 'Root'
	c.Root = append(c.Root[:0], buf[8:40]...)

	return nil
}

// SizeSSZ returns the ssz encoded size in bytes for the Checkpoint object
func (c *Checkpoint) SizeSSZ() int {
	return checkpointSize
}

// HashTreeRoot ssz hashes the AttestationData object
func (a *AttestationData) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(a)
}

// HashTreeRootWith ssz hashes the AttestationData object with a hasher
func (a *AttestationData) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()

	// Field (0) 'Slot'
	hh.PutUint64(uint64(a.Slot))

	// Field (1) 'CommitteeIndex'
	hh.PutUint64(uint64(a.CommitteeIndex))

	// Field (2) 'BeaconBlockRoot'
	if len(a.BeaconBlockRoot) != rootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(a.BeaconBlockRoot)

	// Field (3) 'Source'
	if a.Source == nil {
		a.Source = new(Checkpoint)
	}
	if err := a.Source.HashTreeRootWith(hh); err != nil {
		return err
	}

	// Field (4) 'Target'
	if a.Target == nil {
		a.Target = new(Checkpoint)
	}
	if err := a.Target.HashTreeRootWith(hh); err != nil {
		return err
	}

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the Attestation object
func (a *Attestation) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(a)
}

// HashTreeRootWith ssz hashes the Attestation object with a hasher
func (a *Attestation) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()

	// Field (0) 'AggregationBits'
	if len(a.AggregationBits) == 0 {
		return ErrEmptyBitlist
	}
	hh.PutBitlist(a.AggregationBits, MaxValidatorsPerCommittee)

	// Field (1) 'Data'
	if a.Data == nil {
		a.Data = new(AttestationData)
	}
	if err := a.Data.HashTreeRootWith(hh); err != nil {
		return err
	}

	// Field (2) 'Signature'
	if len(a.Signature) != signatureLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(a.Signature)

	hh.Merkleize(indx)
	return nil
}
