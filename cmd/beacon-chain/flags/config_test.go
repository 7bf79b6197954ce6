package flags

import (
	"flag"
	"testing"
	"time"

	"github.com/ethbeacon/attpool/config/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestConfigurePoolParams(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	app := cli.App{}
	set := flag.NewFlagSet("test", 0)
	set.Int(VerifierBufferSizeFlag.Name, 0, "")
	set.Duration(VerifierIntervalFlag.Name, 0, "")
	set.Int(MaxVerifierThreadsFlag.Name, 0, "")
	require.NoError(t, set.Set(VerifierBufferSizeFlag.Name, "64"))
	require.NoError(t, set.Set(VerifierIntervalFlag.Name, "20ms"))
	ctx := cli.NewContext(&app, set, nil)

	threads := params.BeaconConfig().MaxVerifierThreads
	ConfigurePoolParams(ctx)
	assert.Equal(t, 64, params.BeaconConfig().VerifierBufferSize)
	assert.Equal(t, 20*time.Millisecond, params.BeaconConfig().VerifierInterval())
	assert.Equal(t, threads, params.BeaconConfig().MaxVerifierThreads)
}

func TestConfigurePoolParams_Unchanged(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	before := params.BeaconConfig()
	ctx := cli.NewContext(&cli.App{}, flag.NewFlagSet("test", 0), nil)
	ConfigurePoolParams(ctx)
	assert.Same(t, before, params.BeaconConfig())
}
