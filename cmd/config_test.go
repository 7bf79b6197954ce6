package cmd

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethbeacon/attpool/config/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestConfigureBeaconChain_Minimal(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	app := cli.App{}
	set := flag.NewFlagSet("test", 0)
	set.Bool(MinimalConfigFlag.Name, true, "test")
	ctx := cli.NewContext(&app, set, nil)
	require.NoError(t, ConfigureBeaconChain(ctx))
	assert.Equal(t, params.MinimalSpecConfig().SlotsPerEpoch, params.BeaconConfig().SlotsPerEpoch)
}

func TestConfigureBeaconChain_MissingChainConfigFile(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	app := cli.App{}
	set := flag.NewFlagSet("test", 0)
	set.String(ChainConfigFileFlag.Name, "", "test")
	require.NoError(t, set.Set(ChainConfigFileFlag.Name, filepath.Join(t.TempDir(), "missing.yaml")))
	ctx := cli.NewContext(&app, set, nil)
	assert.ErrorContains(t, ConfigureBeaconChain(ctx), "could not load chain config file")
}

func TestLoadFlagsFromConfig(t *testing.T) {
	app := cli.App{}
	set := flag.NewFlagSet("test", 0)
	context := cli.NewContext(&app, set, nil)

	configFile := filepath.Join(t.TempDir(), "flags_test.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("testflag: 100"), 0600))
	require.NoError(t, set.Parse([]string{"test-command", "--" + ConfigFileFlag.Name, configFile}))
	command := &cli.Command{
		Name: "test-command",
		Flags: WrapFlags([]cli.Flag{
			&cli.StringFlag{
				Name: ConfigFileFlag.Name,
			},
			&cli.IntFlag{
				Name:  "testflag",
				Value: 0,
			},
		}),
		Before: func(cliCtx *cli.Context) error {
			return LoadFlagsFromConfig(cliCtx, cliCtx.Command.Flags)
		},
		Action: func(cliCtx *cli.Context) error {
			assert.Equal(t, 100, cliCtx.Int("testflag"))
			return nil
		},
	}
	require.NoError(t, command.Run(context))
}

func TestValidateNoArgs(t *testing.T) {
	app := &cli.App{
		Before: ValidateNoArgs,
		Action: func(*cli.Context) error { return nil },
	}
	assert.NoError(t, app.Run([]string{"command"}))
	assert.ErrorContains(t, app.Run([]string{"command", "foo"}), "unrecognized argument: foo")
}

func TestWrapFlags_Unsupported(t *testing.T) {
	assert.Panics(t, func() {
		WrapFlags([]cli.Flag{&cli.Int64Flag{Name: "int64"}})
	})
}
