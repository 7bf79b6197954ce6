package flags

import (
	"github.com/ethbeacon/attpool/config/params"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var log = logrus.WithField("prefix", "flags")

// ConfigurePoolParams applies the attestation pool overrides given on the
// command line to the beacon config.
func ConfigurePoolParams(ctx *cli.Context) {
	c := params.BeaconConfig().Copy()
	changed := false
	if ctx.IsSet(VerifierBufferSizeFlag.Name) {
		c.VerifierBufferSize = ctx.Int(VerifierBufferSizeFlag.Name)
		changed = true
	}
	if ctx.IsSet(VerifierIntervalFlag.Name) {
		c.VerifierIntervalMillis = uint64(ctx.Duration(VerifierIntervalFlag.Name).Milliseconds())
		changed = true
	}
	if ctx.IsSet(MaxVerifierThreadsFlag.Name) {
		c.MaxVerifierThreads = ctx.Int(MaxVerifierThreadsFlag.Name)
		changed = true
	}
	if !changed {
		return
	}
	log.WithFields(logrus.Fields{
		"bufferSize": c.VerifierBufferSize,
		"interval":   c.VerifierInterval(),
		"threads":    c.MaxVerifierThreads,
	}).Info("Overriding attestation pool parameters")
	params.OverrideBeaconConfig(c)
}
