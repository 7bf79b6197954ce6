package params_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethbeacon/attpool/config/params"
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalConfig_MinimalPreset(t *testing.T) {
	cfg, err := params.UnmarshalConfig([]byte(`PRESET_BASE: minimal
CONFIG_NAME: local
MAX_ATTESTATION_LOOKAHEAD: 2
VERIFIER_INTERVAL_MILLIS: 20
GENESIS_FORK_VERSION: 0x01020304
DOMAIN_BEACON_ATTESTER: 0x01000000
`))
	require.NoError(t, err)
	require.Equal(t, "local", cfg.ConfigName)
	require.Equal(t, primitives.Slot(8), cfg.SlotsPerEpoch)
	require.Equal(t, primitives.Epoch(2), cfg.MaxAttestationLookahead)
	require.Equal(t, []byte{1, 2, 3, 4}, cfg.GenesisForkVersion)
	require.Equal(t, [4]byte{1, 0, 0, 0}, cfg.DomainBeaconAttester)
	require.Equal(t, int64(20), cfg.VerifierInterval().Milliseconds())
}

func TestUnmarshalConfig_DefaultsToMainnet(t *testing.T) {
	cfg, err := params.UnmarshalConfig([]byte("MAX_VERIFIER_THREADS: 4\n"))
	require.NoError(t, err)
	require.Equal(t, "devnet", cfg.ConfigName)
	require.Equal(t, primitives.Slot(32), cfg.SlotsPerEpoch)
	require.Equal(t, 4, cfg.MaxVerifierThreads)
	require.Equal(t, 1_000_000, cfg.MaxProcessedAttestations)
}

func TestUnmarshalConfig_UnknownField(t *testing.T) {
	_, err := params.UnmarshalConfig([]byte("NOT_A_FIELD: 1\n"))
	require.ErrorContains(t, err, "failed to parse chain config yaml file")
}

func TestLoadChainConfigFile(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("CONFIG_NAME: file\nSECONDS_PER_SLOT: 3\n"), 0600))

	require.NoError(t, params.LoadChainConfigFile(file))
	require.Equal(t, uint64(3), params.BeaconConfig().SecondsPerSlot)
	require.Equal(t, "file", params.BeaconConfig().ConfigName)
}

func TestLoadChainConfigFile_Missing(t *testing.T) {
	err := params.LoadChainConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorContains(t, err, "could not read chain config file")
}

func TestMainnetConfig_IsACopy(t *testing.T) {
	cfg := params.MainnetConfig()
	cfg.GenesisForkVersion[0] = 9
	require.Equal(t, byte(0), params.MainnetConfig().GenesisForkVersion[0])
}
