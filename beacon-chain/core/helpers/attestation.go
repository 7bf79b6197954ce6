// Package helpers contains helper functions outlined in the Ethereum Beacon Chain spec, such as
// attestation sanity checks shared by the attestation pool stages.
package helpers

import (
	"fmt"

	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/time/slots"
	"github.com/pkg/errors"
)

var (
	// ErrNilAttestation is returned when the attestation or one of its mandatory fields is nil.
	ErrNilAttestation = errors.New("nil attestation")
)

// ValidateNilAttestation checks if any composite field of input attestation is nil.
// Access to these nil fields will result in run time panic,
// it is recommended to run these checks as first line of defense.
func ValidateNilAttestation(attestation *ethpb.Attestation) error {
	if attestation == nil {
		return errors.Wrap(ErrNilAttestation, "attestation can't be nil")
	}
	if attestation.Data == nil {
		return errors.Wrap(ErrNilAttestation, "attestation's data can't be nil")
	}
	if attestation.Data.Source == nil {
		return errors.Wrap(ErrNilAttestation, "attestation's source can't be nil")
	}
	if attestation.Data.Target == nil {
		return errors.Wrap(ErrNilAttestation, "attestation's target can't be nil")
	}
	if attestation.AggregationBits == nil {
		return errors.Wrap(ErrNilAttestation, "attestation's bitfield can't be nil")
	}
	return nil
}

// ValidateSlotTargetEpoch checks if attestation data's epoch matches target checkpoint's epoch.
// It is recommended to run `ValidateNilAttestation` first to ensure `data.Target` can't be nil.
func ValidateSlotTargetEpoch(data *ethpb.AttestationData) error {
	if slots.ToEpoch(data.Slot) != data.Target.Epoch {
		return fmt.Errorf("slot %d does not match target epoch %d", data.Slot, data.Target.Epoch)
	}
	return nil
}

// IsAggregated returns true if the attestation is an aggregated attestation,
// false otherwise.
func IsAggregated(attestation *ethpb.Attestation) bool {
	return attestation.AggregationBits.Count() > 1
}
