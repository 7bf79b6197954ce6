package features

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestInitWithReset(t *testing.T) {
	Init(&Flags{DisableDelayQueues: true})
	reset := InitWithReset(&Flags{SkipBLSVerify: true})
	require.True(t, Get().SkipBLSVerify)
	require.False(t, Get().DisableDelayQueues)
	reset()
	require.False(t, Get().SkipBLSVerify)
	require.True(t, Get().DisableDelayQueues)
	Init(&Flags{})
}

func TestConfigureBeaconChain(t *testing.T) {
	app := cli.App{}
	set := flag.NewFlagSet("test", 0)
	set.Bool(skipBLSVerifyFlag.Name, true, "test")
	set.Bool(disableDelayQueuesFlag.Name, false, "test")
	ctx := cli.NewContext(&app, set, nil)

	ConfigureBeaconChain(ctx)
	defer Init(&Flags{})
	require.True(t, Get().SkipBLSVerify)
	require.False(t, Get().DisableDelayQueues)
}
