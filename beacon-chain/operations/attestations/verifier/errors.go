package verifier

import "github.com/pkg/errors"

var (
	// ErrNotInitialized is returned while the light verifier lacks a finalized checkpoint or a slot.
	ErrNotInitialized = errors.New("light verifier has no finalized checkpoint or slot yet")
	// ErrMalformedAttestation is returned for attestations missing mandatory fields.
	ErrMalformedAttestation = errors.New("malformed attestation")
	// ErrSourceNotBeforeTarget is returned when source epoch >= target epoch.
	ErrSourceNotBeforeTarget = errors.New("source epoch is not before target epoch")
	// ErrTargetNotAfterFinalized is returned when the target epoch is finalized already.
	ErrTargetNotAfterFinalized = errors.New("target epoch is not after the finalized epoch")
	// ErrSourceBeforeFinalized is returned when the source is older than the finalized checkpoint.
	ErrSourceBeforeFinalized = errors.New("source epoch is before the finalized epoch")
	// ErrSourceRootMismatch is returned when the source has the finalized epoch but another root.
	ErrSourceRootMismatch = errors.New("source root does not match the finalized root")
	// ErrTargetTooFarAhead is returned when the target epoch is beyond the accepted lookahead.
	ErrTargetTooFarAhead = errors.New("target epoch is too far ahead of the current epoch")
	// ErrCommitteeIndexOutOfRange is returned when the committee index is not below MaxCommitteesPerSlot.
	ErrCommitteeIndexOutOfRange = errors.New("committee index out of range")
	// ErrSlotTargetMismatch is returned when the vote slot is not in the target epoch.
	ErrSlotTargetMismatch = errors.New("slot is not in the target epoch")
	// ErrBitlistTooLong is returned when the aggregation bits exceed MaxValidatorsPerCommittee.
	ErrBitlistTooLong = errors.New("aggregation bitlist is longer than a committee")
	// ErrRecentlyRejected is returned for an attestation that failed light verification recently.
	ErrRecentlyRejected = errors.New("attestation was rejected recently")

	// ErrUnknownBlock is returned when the voted block is not in the block store.
	ErrUnknownBlock = errors.New("voted block is not in the block store")
	// ErrBlockAfterTarget is returned when the voted block is newer than the target epoch.
	ErrBlockAfterTarget = errors.New("voted block epoch is after the target epoch")
	// ErrTargetRootMismatch is returned when an older voted block is not the target root.
	ErrTargetRootMismatch = errors.New("target root must equal the voted block root")
)
