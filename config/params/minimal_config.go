package params

// MinimalSpecConfig retrieves the minimal config used in spec tests and local devnets.
func MinimalSpecConfig() *BeaconChainConfig {
	minimalConfig := mainnetBeaconConfig.Copy()

	minimalConfig.ConfigName = "minimal"
	minimalConfig.PresetBase = "minimal"
	minimalConfig.SecondsPerSlot = 6
	minimalConfig.SlotsPerEpoch = 8
	minimalConfig.MaxCommitteesPerSlot = 4
	minimalConfig.TargetCommitteeSize = 4
	minimalConfig.GenesisForkVersion = []byte{0, 0, 0, 1}

	minimalConfig.MaxUnknownAttestations = 10_000
	minimalConfig.VerifierBufferSize = 1_000
	minimalConfig.MaxChurnAttestations = 128 * 8 * 8

	return minimalConfig
}
