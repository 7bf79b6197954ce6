// Package attestation derives identifiers for attestations.
package attestation

import (
	"fmt"

	"github.com/ethbeacon/attpool/beacon-chain/core/helpers"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/pkg/errors"
)

// IdSource represents the part of attestation that will be used to generate the Id.
type IdSource uint8

const (
	// Full generates the Id from the whole attestation.
	Full IdSource = iota
	// Data generates the Id from the tuple (slot, committee index, beacon block root, source, target).
	Data
)

// Id represents an attestation ID. Its uniqueness depends on the IdSource provided when constructing the Id.
type Id [32]byte

// NewId --
func NewId(att *ethpb.Attestation, source IdSource) (Id, error) {
	if err := helpers.ValidateNilAttestation(att); err != nil {
		return Id{}, err
	}
	switch source {
	case Full:
		h, err := att.HashTreeRoot()
		if err != nil {
			return Id{}, errors.Wrap(err, "could not hash attestation")
		}
		return h, nil
	case Data:
		h, err := att.Data.HashTreeRoot()
		if err != nil {
			return Id{}, errors.Wrap(err, "could not hash attestation data")
		}
		return h, nil
	default:
		return Id{}, errors.New("invalid source requested")
	}
}

// String --
func (id Id) String() string {
	return fmt.Sprintf("%#x", id[:])
}
