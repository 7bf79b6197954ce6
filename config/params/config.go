// Package params defines the chain and attestation pool constants shared by
// every service of the node.
package params

import (
	"time"

	"github.com/ethbeacon/attpool/consensus-types/primitives"
)

// BeaconChainConfig contains constant configs for node to participate in beacon chain.
type BeaconChainConfig struct {
	ConfigName string `yaml:"CONFIG_NAME"`
	PresetBase string `yaml:"PRESET_BASE"`

	// Time parameters.
	GenesisSlot                  primitives.Slot  `yaml:"GENESIS_SLOT"`
	GenesisEpoch                 primitives.Epoch `yaml:"GENESIS_EPOCH"`
	FarFutureEpoch               primitives.Epoch
	SecondsPerSlot               uint64          `yaml:"SECONDS_PER_SLOT"`
	SlotsPerEpoch                primitives.Slot `yaml:"SLOTS_PER_EPOCH"`
	MinAttestationInclusionDelay primitives.Slot `yaml:"MIN_ATTESTATION_INCLUSION_DELAY"`

	// Committee parameters.
	MaxCommitteesPerSlot      uint64 `yaml:"MAX_COMMITTEES_PER_SLOT"`
	TargetCommitteeSize       uint64 `yaml:"TARGET_COMMITTEE_SIZE"`
	MaxValidatorsPerCommittee uint64 `yaml:"MAX_VALIDATORS_PER_COMMITTEE"`
	MaxAttestations           uint64 `yaml:"MAX_ATTESTATIONS"`

	// Signature domains and fork versions.
	GenesisForkVersion   []byte  `yaml:"GENESIS_FORK_VERSION"`
	DomainBeaconAttester [4]byte `yaml:"DOMAIN_BEACON_ATTESTER"`

	// Sizes of the cryptographic primitives.
	BLSSecretKeyLength int
	BLSPubkeyLength    int
	BLSSignatureLength int
	RootLength         int
	ZeroHash           [32]byte

	// Attestation pool.
	MaxAttestationLookahead  primitives.Epoch `yaml:"MAX_ATTESTATION_LOOKAHEAD"`
	MaxProcessedAttestations int              `yaml:"MAX_PROCESSED_ATTESTATIONS"`
	MaxUnknownAttestations   int              `yaml:"MAX_UNKNOWN_ATTESTATIONS"`
	VerifierBufferSize       int              `yaml:"VERIFIER_BUFFER_SIZE"`
	VerifierIntervalMillis   uint64           `yaml:"VERIFIER_INTERVAL_MILLIS"`
	MaxVerifierThreads       int              `yaml:"MAX_VERIFIER_THREADS"`
	MaxChurnAttestations     int              `yaml:"MAX_CHURN_ATTESTATIONS"`
}

// VerifierInterval is the flush period of the full verification batch buffer.
func (b *BeaconChainConfig) VerifierInterval() time.Duration {
	return time.Duration(b.VerifierIntervalMillis) * time.Millisecond
}

// SlotDuration is the length of a single slot.
func (b *BeaconChainConfig) SlotDuration() time.Duration {
	return time.Duration(b.SecondsPerSlot) * time.Second
}

// Copy returns a copy of the config object.
func (b *BeaconChainConfig) Copy() *BeaconChainConfig {
	c := *b
	c.GenesisForkVersion = append([]byte(nil), b.GenesisForkVersion...)
	return &c
}
