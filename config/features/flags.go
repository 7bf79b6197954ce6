package features

import (
	"github.com/urfave/cli/v2"
)

var (
	skipBLSVerifyFlag = &cli.BoolFlag{
		Name:  "skip-bls-verify",
		Usage: "Trust attestation signatures instead of verifying them. Only useful for simulation.",
	}
	disableDelayQueuesFlag = &cli.BoolFlag{
		Name:  "disable-delay-queues",
		Usage: "Disable the slot and block driven attestation delay queues.",
	}
)

// BeaconChainFlags contains a list of all the feature flags that apply to the beacon-chain client.
var BeaconChainFlags = []cli.Flag{
	skipBLSVerifyFlag,
	disableDelayQueuesFlag,
}
