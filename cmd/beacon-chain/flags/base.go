// Package flags defines the command line flags of the beacon node.
package flags

import (
	"github.com/urfave/cli/v2"
)

var (
	// MonitoringPortFlag defines the http port used to serve prometheus metrics.
	MonitoringPortFlag = &cli.IntFlag{
		Name:  "monitoring-port",
		Usage: "Port used to listening and respond metrics for prometheus.",
		Value: 8080,
	}
	// VerifierBufferSizeFlag overrides the number of attestations verified in one batch.
	VerifierBufferSizeFlag = &cli.IntFlag{
		Name:  "verifier-buffer-size",
		Usage: "Number of attestations buffered before a batch signature verification is forced.",
	}
	// VerifierIntervalFlag overrides the flush period of the verification buffer.
	VerifierIntervalFlag = &cli.DurationFlag{
		Name:  "verifier-interval",
		Usage: "Period after which buffered attestations are verified even if the buffer is not full.",
	}
	// MaxVerifierThreadsFlag overrides the number of signature verification workers.
	MaxVerifierThreadsFlag = &cli.IntFlag{
		Name:  "max-verifier-threads",
		Usage: "Number of workers verifying attestation signatures in parallel.",
	}
)
