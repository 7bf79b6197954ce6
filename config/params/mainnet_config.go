package params

// MainnetConfig returns the configuration to be used in the main network.
func MainnetConfig() *BeaconChainConfig {
	return mainnetBeaconConfig.Copy()
}

var mainnetBeaconConfig = &BeaconChainConfig{
	ConfigName: "mainnet",
	PresetBase: "mainnet",

	// Time parameter constants.
	GenesisSlot:                  0,
	GenesisEpoch:                 0,
	FarFutureEpoch:               1<<64 - 1,
	SecondsPerSlot:               12,
	SlotsPerEpoch:                32,
	MinAttestationInclusionDelay: 1,

	// Misc constants.
	MaxCommitteesPerSlot:      64,
	TargetCommitteeSize:       128,
	MaxValidatorsPerCommittee: 2048,
	MaxAttestations:           128,

	// Fork and domain constants.
	GenesisForkVersion:   []byte{0, 0, 0, 0},
	DomainBeaconAttester: [4]byte{1, 0, 0, 0},

	// BLS and hashing constants.
	BLSSecretKeyLength: 32,
	BLSPubkeyLength:    48,
	BLSSignatureLength: 96,
	RootLength:         32,

	// Attestation pool values.
	MaxAttestationLookahead:  1,
	MaxProcessedAttestations: 1_000_000,
	MaxUnknownAttestations:   100_000,
	VerifierBufferSize:       10_000,
	VerifierIntervalMillis:   50,
	MaxVerifierThreads:       32,
	MaxChurnAttestations:     128 * 32 * 8,
}
