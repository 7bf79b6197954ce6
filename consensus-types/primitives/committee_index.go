package primitives

// CommitteeIndex is the index of a beacon committee within a slot.
type CommitteeIndex uint64

// ValidatorIndex is the index of a validator in the registry.
type ValidatorIndex uint64
