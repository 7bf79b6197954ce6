package flags

import (
	"github.com/urfave/cli/v2"
)

var (
	// InteropGenesisTimeFlag specifies genesis time of the interop chain.
	InteropGenesisTimeFlag = &cli.Uint64Flag{
		Name: "interop-genesis-time",
		Usage: "Specify the unix genesis time of the interop chain. Defaults to the start time of the node. " +
			"Must be used with --interop-num-validators",
	}
	// InteropNumValidatorsFlag specifies number of genesis validators of the interop chain.
	InteropNumValidatorsFlag = &cli.Uint64Flag{
		Name:  "interop-num-validators",
		Usage: "Run a local interop chain with this many deterministic validators voting into the pool",
	}
)
