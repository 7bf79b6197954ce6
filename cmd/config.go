package cmd

import (
	"github.com/ethbeacon/attpool/config/params"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
)

var log = logrus.WithField("prefix", "cmd")

// ConfigureBeaconChain selects the chain preset and applies the chain config
// file, in that order, so a file can override a preset.
func ConfigureBeaconChain(ctx *cli.Context) error {
	if ctx.Bool(MinimalConfigFlag.Name) {
		log.Warn("Using minimal config")
		params.OverrideBeaconConfig(params.MinimalSpecConfig())
	}
	if ctx.IsSet(ChainConfigFileFlag.Name) {
		if err := params.LoadChainConfigFile(ctx.String(ChainConfigFileFlag.Name)); err != nil {
			return errors.Wrap(err, "could not load chain config file")
		}
	}
	return nil
}

// LoadFlagsFromConfig sets flags values from config file if ConfigFileFlag is set.
func LoadFlagsFromConfig(cliCtx *cli.Context, flags []cli.Flag) error {
	if cliCtx.IsSet(ConfigFileFlag.Name) {
		if err := altsrc.InitInputSourceWithContext(flags, altsrc.NewYamlSourceFromFlagFunc(ConfigFileFlag.Name))(cliCtx); err != nil {
			return err
		}
	}
	return nil
}

// ValidateNoArgs insures that the application is not run with erroneous arguments or flags.
// This function should be used in the app.Before, whenever the application supports a default command.
func ValidateNoArgs(ctx *cli.Context) error {
	if ctx.NArg() > 0 {
		return errors.Errorf("unrecognized argument: %s", ctx.Args().First())
	}
	return nil
}
