package bls_test

import (
	"bytes"
	"testing"

	"github.com/ethbeacon/attpool/crypto/bls"
	"github.com/ethbeacon/attpool/crypto/bls/common"
	"github.com/stretchr/testify/require"
)

func seededKey(t *testing.T, b byte) bls.SecretKey {
	sk, err := bls.SecretKeyFromSeed(bytes.Repeat([]byte{b}, 32))
	require.NoError(t, err)
	return sk
}

func TestSignVerify(t *testing.T) {
	sk := seededKey(t, 1)
	msg := [32]byte{'h', 'e', 'l', 'l', 'o'}
	sig := sk.Sign(msg[:])
	require.True(t, sig.Verify(sk.PublicKey(), msg[:]))
	require.False(t, sig.Verify(seededKey(t, 2).PublicKey(), msg[:]))

	decoded, err := bls.SignatureFromBytes(sig.Marshal())
	require.NoError(t, err)
	require.True(t, decoded.Verify(sk.PublicKey(), msg[:]))
}

func TestSecretKeyRoundTrip(t *testing.T) {
	sk := seededKey(t, 3)
	restored, err := bls.SecretKeyFromBytes(sk.Marshal())
	require.NoError(t, err)
	require.True(t, sk.PublicKey().Equals(restored.PublicKey()))

	_, err = bls.SecretKeyFromBytes(make([]byte, 32))
	require.ErrorIs(t, err, common.ErrZeroKey)
}

func TestFastAggregateVerify(t *testing.T) {
	msg := [32]byte{'v', 'o', 't', 'e'}
	var sigs []bls.Signature
	var pubs []bls.PublicKey
	var rawPubs [][]byte
	for i := byte(1); i <= 4; i++ {
		sk := seededKey(t, i)
		sigs = append(sigs, sk.Sign(msg[:]))
		pubs = append(pubs, sk.PublicKey())
		rawPubs = append(rawPubs, sk.PublicKey().Marshal())
	}
	agg := bls.AggregateSignatures(sigs)
	require.True(t, agg.FastAggregateVerify(pubs, msg))
	require.False(t, agg.FastAggregateVerify(pubs[:3], msg))

	aggPub, err := bls.AggregatePublicKeys(rawPubs)
	require.NoError(t, err)
	require.True(t, agg.Verify(aggPub, msg[:]))
}

func TestAggregateCompressedSignatures(t *testing.T) {
	msg := [32]byte{9}
	a, b := seededKey(t, 5), seededKey(t, 6)
	sigA, sigB := a.Sign(msg[:]), b.Sign(msg[:])

	agg, err := bls.AggregateCompressedSignatures([][]byte{sigA.Marshal(), sigB.Marshal()})
	require.NoError(t, err)
	require.Equal(t, bls.AggregateSignatures([]bls.Signature{sigA, sigB}).Marshal(), agg.Marshal())

	_, err = bls.AggregateCompressedSignatures(nil)
	require.ErrorIs(t, err, common.ErrNoSignatures)
}

func TestVerifyMultipleSignatures(t *testing.T) {
	var sigs [][]byte
	var msgs [][32]byte
	var pubs []bls.PublicKey
	for i := byte(1); i <= 3; i++ {
		sk := seededKey(t, i)
		msg := [32]byte{i}
		sigs = append(sigs, sk.Sign(msg[:]).Marshal())
		msgs = append(msgs, msg)
		pubs = append(pubs, sk.PublicKey())
	}
	ok, err := bls.VerifyMultipleSignatures(sigs, msgs, pubs)
	require.NoError(t, err)
	require.True(t, ok)

	msgs[1] = [32]byte{0xff}
	ok, err = bls.VerifyMultipleSignatures(sigs, msgs, pubs)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = bls.VerifyMultipleSignatures(sigs, msgs[:1], pubs)
	require.ErrorContains(t, err, "differing lengths")
}

func TestPublicKeyFromBytes_Invalid(t *testing.T) {
	_, err := bls.PublicKeyFromBytes([]byte{1, 2, 3})
	require.ErrorContains(t, err, "public key must be 48 bytes")
	_, err = bls.PublicKeyFromBytes(common.InfinitePublicKey[:])
	require.Error(t, err)
}
