package simulator

import (
	"context"
	"testing"

	"github.com/ethbeacon/attpool/beacon-chain/core/signing"
	"github.com/ethbeacon/attpool/config/params"
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	"github.com/ethbeacon/attpool/crypto/bls"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/testing/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidators_NoValidators(t *testing.T) {
	_, err := NewValidators(0)
	assert.ErrorContains(t, err, "no validators")
}

func TestValidators_Committee(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	cfg := params.BeaconConfig().Copy()
	cfg.TargetCommitteeSize = 2
	params.OverrideBeaconConfig(cfg)

	v, err := NewValidators(256)
	require.NoError(t, err)
	require.Equal(t, uint64(4), v.CommitteesPerSlot())

	committee, err := v.Committee(3, 1)
	require.NoError(t, err)
	assert.Equal(t, []primitives.ValidatorIndex{35, 163}, committee)

	// Same slot of the next epoch, same committee.
	next, err := v.Committee(cfg.SlotsPerEpoch+3, 1)
	require.NoError(t, err)
	assert.Equal(t, committee, next)

	_, err = v.Committee(3, 4)
	assert.ErrorContains(t, err, "out of range")
}

func TestValidators_SmallSetHasOneCommittee(t *testing.T) {
	v, err := NewValidators(64)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v.CommitteesPerSlot())
	committee, err := v.Committee(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []primitives.ValidatorIndex{0, 32}, committee)
}

func TestValidators_SignAndResolveKeys(t *testing.T) {
	ctx := context.Background()
	v, err := NewValidators(64)
	require.NoError(t, err)
	data := util.HydrateAttestationData(&ethpb.AttestationData{Slot: 5})

	sig, err := v.Sign(ctx, 37, data)
	require.NoError(t, err)
	att := &ethpb.Attestation{AggregationBits: util.Bitlist(2, 1), Data: data, Signature: sig}
	keys, err := v.AttestingPubkeys(ctx, att)
	require.NoError(t, err)
	require.Len(t, keys, 1)

	domain, err := v.Domain(ctx, 0)
	require.NoError(t, err)
	root, err := signing.ComputeSigningRoot(data, domain)
	require.NoError(t, err)
	s, err := bls.SignatureFromBytes(sig)
	require.NoError(t, err)
	assert.True(t, s.Verify(keys[0], root[:]))

	att.AggregationBits = util.Bitlist(3, 1)
	_, err = v.AttestingPubkeys(ctx, att)
	assert.ErrorContains(t, err, "does not match committee size")

	_, err = v.Sign(ctx, 64, data)
	assert.ErrorContains(t, err, "unknown validator")
}
