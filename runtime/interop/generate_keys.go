// Package interop derives the deterministic validator keys used by local
// test networks.
package interop

import (
	"encoding/binary"

	"github.com/ethbeacon/attpool/crypto/bls"
	"github.com/ethbeacon/attpool/crypto/hash"
	"github.com/pkg/errors"
)

// DeterministicallyGenerateKeys creates BLS private keys from the sha256
// digest of each validator index in [startIndex, startIndex+numKeys).
func DeterministicallyGenerateKeys(startIndex, numKeys uint64) ([]bls.SecretKey, []bls.PublicKey, error) {
	privKeys := make([]bls.SecretKey, numKeys)
	pubKeys := make([]bls.PublicKey, numKeys)
	for i := startIndex; i < startIndex+numKeys; i++ {
		enc := make([]byte, 32)
		binary.LittleEndian.PutUint32(enc, uint32(i))
		seed := hash.Hash(enc)
		priv, err := bls.SecretKeyFromSeed(seed[:])
		if err != nil {
			return nil, nil, errors.Wrapf(err, "could not create bls secret key at index %d", i)
		}
		privKeys[i-startIndex] = priv
		pubKeys[i-startIndex] = priv.PublicKey()
	}
	return privKeys, pubKeys, nil
}
