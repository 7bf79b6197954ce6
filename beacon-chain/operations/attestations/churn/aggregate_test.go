package churn

import (
	"testing"

	"github.com/ethbeacon/attpool/crypto/bls"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/runtime/interop"
	"github.com/ethbeacon/attpool/testing/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsigned(data *ethpb.AttestationData, positions ...uint64) *ethpb.Attestation {
	return util.HydrateAttestation(&ethpb.Attestation{
		AggregationBits: util.Bitlist(8, positions...),
		Data:            data.Copy(),
	})
}

func TestAttestationAggregate_DisjointBits(t *testing.T) {
	secrets, _, err := interop.DeterministicallyGenerateKeys(0, 4)
	require.NoError(t, err)
	data := util.HydrateAttestationData(&ethpb.AttestationData{Slot: 3})
	v1 := util.NewSignedAttestation(t, secrets, data, 0, 2)
	v2 := util.NewSignedAttestation(t, secrets, data, 1, 3)

	groups, err := GroupAttestations([]*ethpb.Attestation{v1, v2})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].Len())

	agg, err := groups[0].Finalize()
	require.NoError(t, err)
	assert.Equal(t, util.Bitlist(4, 0, 1, 2, 3), agg.AggregationBits)
	assert.True(t, agg.Data.Equal(data))

	sig1, err := bls.SignatureFromBytes(v1.Signature)
	require.NoError(t, err)
	sig2, err := bls.SignatureFromBytes(v2.Signature)
	require.NoError(t, err)
	assert.Equal(t, bls.AggregateSignatures([]bls.Signature{sig1, sig2}).Marshal(), agg.Signature)
}

func TestAttestationAggregate_CanAdd(t *testing.T) {
	data := util.HydrateAttestationData(&ethpb.AttestationData{Slot: 1})
	other := util.HydrateAttestationData(&ethpb.AttestationData{Slot: 2})
	agg := NewAttestationAggregate(unsigned(data, 0, 1))

	assert.ErrorIs(t, agg.CanAdd(unsigned(data, 1, 2)), ErrBitsOverlap)
	assert.ErrorIs(t, agg.CanAdd(unsigned(other, 4)), ErrDataMismatch)
	assert.ErrorIs(t, agg.CanAdd(&ethpb.Attestation{AggregationBits: util.Bitlist(16, 9), Data: data.Copy()}), ErrBitsDifferentLen)
	assert.NoError(t, agg.CanAdd(unsigned(data, 2)))

	assert.False(t, agg.Add(unsigned(data, 1)))
	assert.True(t, agg.Add(unsigned(data, 2)))
	assert.Equal(t, util.Bitlist(8, 0, 1, 2), agg.Bits())
	assert.Equal(t, 2, agg.Len())
}

func TestAttestationAggregate_FinalizeBadSignature(t *testing.T) {
	agg := NewAttestationAggregate(unsigned(util.HydrateAttestationData(nil), 0))
	_, err := agg.Finalize()
	assert.Error(t, err)
}

func TestGroupAttestations_FirstFit(t *testing.T) {
	data := util.HydrateAttestationData(&ethpb.AttestationData{Slot: 1})
	other := util.HydrateAttestationData(&ethpb.AttestationData{Slot: 1, CommitteeIndex: 1})
	a := unsigned(data, 0)
	b := unsigned(data, 1, 2)
	e := unsigned(other, 7)
	c := unsigned(data, 0, 3)
	d := unsigned(data, 4)

	groups, err := GroupAttestations([]*ethpb.Attestation{a, b, e, c, d})
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, util.Bitlist(8, 0, 1, 2, 3, 4), groups[0].Bits())
	assert.Equal(t, 3, groups[0].Len())
	assert.Equal(t, util.Bitlist(8, 0), groups[1].Bits())
	assert.True(t, groups[2].Data().Equal(other))
}

func TestGroupAttestations_MembersAreDisjoint(t *testing.T) {
	data := util.HydrateAttestationData(&ethpb.AttestationData{Slot: 5})
	var atts []*ethpb.Attestation
	for i := uint64(0); i < 8; i++ {
		atts = append(atts, unsigned(data, i, (i+1)%8), unsigned(data, i))
	}
	groups, err := GroupAttestations(atts)
	require.NoError(t, err)

	total := 0
	for _, g := range groups {
		total += g.Len()
		var count uint64
		for _, m := range g.members {
			count += m.AggregationBits.Count()
		}
		// Disjoint members add up to the union.
		assert.Equal(t, g.Bits().Count(), count)
	}
	assert.Equal(t, len(atts), total)
}
