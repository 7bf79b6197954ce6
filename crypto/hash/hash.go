// Package hash includes all hash-function related helpers.
package hash

import (
	"github.com/minio/sha256-simd"
)

// Hash defines a function that returns the sha256 checksum of the data passed in.
// https://github.com/ethereum/consensus-specs/blob/v0.9.3/specs/core/0_beacon-chain.md#hash
func Hash(data []byte) [32]byte {
	return sha256.Sum256(data)
}
