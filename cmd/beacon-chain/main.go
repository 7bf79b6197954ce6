// Package main runs a beacon node carrying the attestation pool, driven by
// a local interop chain.
package main

import (
	"fmt"
	"os"
	runtimeDebug "runtime/debug"

	"github.com/ethbeacon/attpool/beacon-chain/node"
	"github.com/ethbeacon/attpool/cmd"
	"github.com/ethbeacon/attpool/cmd/beacon-chain/flags"
	"github.com/ethbeacon/attpool/config/features"
	"github.com/ethbeacon/attpool/runtime/logging"
	"github.com/ethbeacon/attpool/runtime/version"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/wercker/journalhook"
	_ "go.uber.org/automaxprocs"
)

var log = logrus.WithField("prefix", "main")

var appFlags = []cli.Flag{
	cmd.VerbosityFlag,
	cmd.DataDirFlag,
	cmd.EnableTracingFlag,
	cmd.TracingProcessNameFlag,
	cmd.TracingEndpointFlag,
	cmd.TraceSampleFractionFlag,
	cmd.MonitoringHostFlag,
	cmd.DisableMonitoringFlag,
	cmd.ForceClearDB,
	cmd.ClearDB,
	cmd.LogFormat,
	cmd.LogFileName,
	cmd.ConfigFileFlag,
	cmd.ChainConfigFileFlag,
	cmd.MinimalConfigFlag,
	cmd.BoltMMapInitialSizeFlag,
	flags.MonitoringPortFlag,
	flags.VerifierBufferSizeFlag,
	flags.VerifierIntervalFlag,
	flags.MaxVerifierThreadsFlag,
	flags.InteropGenesisTimeFlag,
	flags.InteropNumValidatorsFlag,
}

func init() {
	appFlags = cmd.WrapFlags(append(appFlags, features.BeaconChainFlags...))
}

func main() {
	app := cli.App{}
	app.Name = "beacon-chain"
	app.Usage = "attestation pool of an Ethereum proof-of-stake beacon node"
	app.Action = startNode
	app.Version = version.Version()
	app.Flags = appFlags

	app.Before = func(ctx *cli.Context) error {
		if err := cmd.LoadFlagsFromConfig(ctx, app.Flags); err != nil {
			return err
		}

		format := ctx.String(cmd.LogFormat.Name)
		if format == "journald" {
			journalhook.Enable()
			// The log file keeps a readable format.
			format = "text"
		} else {
			formatter, err := logging.Formatter(format, true)
			if err != nil {
				return err
			}
			logrus.SetFormatter(formatter)
		}

		logFileName := ctx.String(cmd.LogFileName.Name)
		if logFileName != "" {
			if err := logging.ConfigurePersistentLogging(logFileName, format); err != nil {
				log.WithError(err).Error("Failed to configuring logging to disk.")
			}
		}
		return cmd.ValidateNoArgs(ctx)
	}

	defer func() {
		if x := recover(); x != nil {
			log.Errorf("Runtime panic: %v\n%v", x, string(runtimeDebug.Stack()))
			panic(x)
		}
	}()

	if err := app.Run(os.Args); err != nil {
		log.Error(err.Error())
	}
}

func startNode(ctx *cli.Context) error {
	verbosity := ctx.String(cmd.VerbosityFlag.Name)
	level, err := logrus.ParseLevel(verbosity)
	if err != nil {
		return errors.Wrap(err, "could not parse verbosity")
	}
	logrus.SetLevel(level)

	beacon, err := node.New(ctx)
	if err != nil {
		return fmt.Errorf("unable to start beacon node: %w", err)
	}
	beacon.Start()
	return nil
}
