package blst

import (
	"crypto/rand"
	"fmt"

	"github.com/ethbeacon/attpool/crypto/bls/common"
	"github.com/pkg/errors"
	blst "github.com/supranational/blst/bindings/go"
)

const secretKeyLength = 32

// bls12SecretKey used in the BLS signature scheme.
type bls12SecretKey struct {
	p *blst.SecretKey
}

// RandKey creates a new private key using a random method provided as an io.Reader.
func RandKey() (common.SecretKey, error) {
	// Generate 32 bytes of randomness
	var ikm [32]byte
	if _, err := rand.Read(ikm[:]); err != nil {
		return nil, err
	}
	return &bls12SecretKey{blst.KeyGen(ikm[:])}, nil
}

// SecretKeyFromSeed derives a secret key from input key material of at least 32 bytes.
func SecretKeyFromSeed(ikm []byte) (common.SecretKey, error) {
	if len(ikm) < 32 {
		return nil, fmt.Errorf("key material must be at least 32 bytes, got %d", len(ikm))
	}
	sk := blst.KeyGen(ikm)
	if sk == nil {
		return nil, errors.New("could not derive secret key")
	}
	return &bls12SecretKey{p: sk}, nil
}

// SecretKeyFromBytes creates a BLS private key from a BigEndian byte slice.
func SecretKeyFromBytes(privKey []byte) (common.SecretKey, error) {
	if len(privKey) != secretKeyLength {
		return nil, fmt.Errorf("secret key must be %d bytes", secretKeyLength)
	}
	if common.SecretKeyIsZero(privKey) {
		return nil, common.ErrZeroKey
	}
	secKey := new(blst.SecretKey).Deserialize(privKey)
	if secKey == nil {
		return nil, errors.New("could not unmarshal bytes into secret key")
	}
	return &bls12SecretKey{p: secKey}, nil
}

// PublicKey obtains the public key corresponding to the BLS secret key.
func (s *bls12SecretKey) PublicKey() common.PublicKey {
	return &PublicKey{p: new(blstPublicKey).From(s.p)}
}

// Sign a message using a secret key - in a beacon/validator client.
//
// In IETF draft BLS specification:
// Sign(SK, message) -> signature: a signing algorithm that generates
//
//	a deterministic signature given a secret key SK and a message.
func (s *bls12SecretKey) Sign(msg []byte) common.Signature {
	signature := new(blstSignature).Sign(s.p, msg, dst)
	return &Signature{s: signature}
}

// Marshal a secret key into a LittleEndian byte slice.
func (s *bls12SecretKey) Marshal() []byte {
	keyBytes := s.p.Serialize()
	if len(keyBytes) < secretKeyLength {
		emptyBytes := make([]byte, secretKeyLength-len(keyBytes))
		keyBytes = append(emptyBytes, keyBytes...)
	}
	return keyBytes
}
