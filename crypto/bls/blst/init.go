// Package blst implements a wrapper around the supranational blst library
// for the BLS12-381 signatures used by attestations.
package blst

import (
	"runtime"

	blst "github.com/supranational/blst/bindings/go"
)

func init() {
	// Reserve 1 core for general application work
	maxProcs := runtime.GOMAXPROCS(0) - 1
	if maxProcs <= 0 {
		maxProcs = 1
	}
	blst.SetMaxProcs(maxProcs)
}
