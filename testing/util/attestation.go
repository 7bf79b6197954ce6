package util

import (
	"testing"

	"github.com/ethbeacon/attpool/beacon-chain/core/signing"
	"github.com/ethbeacon/attpool/config/params"
	"github.com/ethbeacon/attpool/crypto/bls"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/prysmaticlabs/go-bitfield"
	"github.com/stretchr/testify/require"
)

// NewAttestation creates an attestation block with minimum marshalable fields.
func NewAttestation() *ethpb.Attestation {
	return &ethpb.Attestation{
		AggregationBits: bitfield.Bitlist{0b1101},
		Data: &ethpb.AttestationData{
			BeaconBlockRoot: make([]byte, 32),
			Source: &ethpb.Checkpoint{
				Root: make([]byte, 32),
			},
			Target: &ethpb.Checkpoint{
				Root: make([]byte, 32),
			},
		},
		Signature: make([]byte, 96),
	}
}

// HydrateAttestation hydrates an attestation object with empty arrays to pass
// hash tree root checks.
func HydrateAttestation(a *ethpb.Attestation) *ethpb.Attestation {
	if a.Signature == nil {
		a.Signature = make([]byte, params.BeaconConfig().BLSSignatureLength)
	}
	if a.AggregationBits == nil {
		a.AggregationBits = bitfield.NewBitlist(1)
	}
	a.Data = HydrateAttestationData(a.Data)
	return a
}

// HydrateAttestationData hydrates an attestation data object with empty
// arrays to pass hash tree root checks.
func HydrateAttestationData(d *ethpb.AttestationData) *ethpb.AttestationData {
	if d == nil {
		d = &ethpb.AttestationData{}
	}
	if d.BeaconBlockRoot == nil {
		d.BeaconBlockRoot = make([]byte, 32)
	}
	if d.Target == nil {
		d.Target = &ethpb.Checkpoint{}
	}
	if d.Target.Root == nil {
		d.Target.Root = make([]byte, 32)
	}
	if d.Source == nil {
		d.Source = &ethpb.Checkpoint{}
	}
	if d.Source.Root == nil {
		d.Source.Root = make([]byte, 32)
	}
	return d
}

// Bitlist returns a bitlist of the given length with the given positions set.
func Bitlist(length uint64, positions ...uint64) bitfield.Bitlist {
	bl := bitfield.NewBitlist(length)
	for _, p := range positions {
		bl.SetBitAt(p, true)
	}
	return bl
}

// SignAttestationData returns the signature of keys[i] over data for every
// position i, aggregated.
func SignAttestationData(t testing.TB, keys []bls.SecretKey, data *ethpb.AttestationData, positions ...uint64) []byte {
	domain, err := signing.ComputeDomain(params.BeaconConfig().DomainBeaconAttester, nil, nil)
	require.NoError(t, err)
	root, err := signing.ComputeSigningRoot(data, domain)
	require.NoError(t, err)
	sigs := make([]bls.Signature, 0, len(positions))
	for _, p := range positions {
		sigs = append(sigs, keys[p].Sign(root[:]))
	}
	return bls.AggregateSignatures(sigs).Marshal()
}

// NewSignedAttestation returns an attestation over data signed by the
// committee members at the given positions. The committee is keys, in order.
func NewSignedAttestation(t testing.TB, keys []bls.SecretKey, data *ethpb.AttestationData, positions ...uint64) *ethpb.Attestation {
	data = HydrateAttestationData(data)
	return &ethpb.Attestation{
		AggregationBits: Bitlist(uint64(len(keys)), positions...),
		Data:            data,
		Signature:       SignAttestationData(t, keys, data, positions...),
	}
}

// NewReceived wraps attestations as if they came from the given peer.
func NewReceived(peer string, atts ...*ethpb.Attestation) []*ethpb.ReceivedAttestation {
	received := make([]*ethpb.ReceivedAttestation, len(atts))
	for i, a := range atts {
		received[i] = ethpb.NewReceivedAttestation(peer, a)
	}
	return received
}
