/*
Package features defines which features are enabled for runtime
in order to selectively enable certain features to maintain a stable runtime.

Use the following to enable a flag for tests:

	resetCfg := features.InitWithReset(&features.Flags{
		SkipBLSVerify: true,
	})
	defer resetCfg()
*/
package features

import (
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var log = logrus.WithField("prefix", "flags")

// Flags is a struct to represent which features the client will perform on runtime.
type Flags struct {
	SkipBLSVerify      bool // SkipBLSVerify trusts every attestation signature in the full verification stage.
	DisableDelayQueues bool // DisableDelayQueues does not start the slot and block driven delay queues.
}

var featureConfig *Flags
var featureConfigLock sync.RWMutex

// Get retrieves feature config.
func Get() *Flags {
	featureConfigLock.RLock()
	defer featureConfigLock.RUnlock()
	if featureConfig == nil {
		return &Flags{}
	}
	return featureConfig
}

// Init sets the global config equal to the config that is passed in.
func Init(c *Flags) {
	featureConfigLock.Lock()
	defer featureConfigLock.Unlock()
	featureConfig = c
}

// InitWithReset sets the global config and returns function that is used to reset configuration.
func InitWithReset(c *Flags) func() {
	var prev Flags
	if cur := Get(); cur != nil {
		prev = *cur
	}
	Init(c)
	return func() {
		Init(&prev)
	}
}

// ConfigureBeaconChain sets the global config based
// on what flags are enabled for the beacon-chain client.
func ConfigureBeaconChain(ctx *cli.Context) {
	cfg := &Flags{}
	if ctx.Bool(skipBLSVerifyFlag.Name) {
		log.Warn("UNSAFE: Skipping BLS verification of attestation signatures")
		cfg.SkipBLSVerify = true
	}
	if ctx.Bool(disableDelayQueuesFlag.Name) {
		log.Warn("Disabling slot and block driven delay queues")
		cfg.DisableDelayQueues = true
	}
	Init(cfg)
}
