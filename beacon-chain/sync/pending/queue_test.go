package pending

import (
	"testing"

	"github.com/ethbeacon/attpool/beacon-chain/core/helpers"
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/testing/util"
	"github.com/ethbeacon/attpool/time/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attAt(slot primitives.Slot, blockRoot [32]byte, bit uint64) *ethpb.ReceivedAttestation {
	att := util.HydrateAttestation(&ethpb.Attestation{
		AggregationBits: util.Bitlist(8, bit),
		Data: &ethpb.AttestationData{
			Slot:            slot,
			BeaconBlockRoot: blockRoot[:],
			Target:          &ethpb.Checkpoint{Epoch: slots.ToEpoch(slot)},
		},
	})
	return ethpb.NewReceivedAttestation("peer", att)
}

func TestAttestationsBySlot(t *testing.T) {
	q := NewAttestationsBySlot()
	a := attAt(5, [32]byte{}, 0)
	b := attAt(3, [32]byte{}, 1)
	c := attAt(5, [32]byte{}, 2)
	for _, att := range []*ethpb.ReceivedAttestation{a, b, c} {
		added, err := q.Add(att)
		require.NoError(t, err)
		assert.True(t, added)
	}
	// Same vote from another peer.
	added, err := q.Add(ethpb.NewReceivedAttestation("other", a.Attestation))
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 3, q.Len())

	assert.Empty(t, q.OnTick(3))
	assert.Equal(t, []*ethpb.ReceivedAttestation{b}, q.OnTick(5))
	assert.Equal(t, []*ethpb.ReceivedAttestation{a, c}, q.OnTick(7))
	assert.Empty(t, q.OnTick(8))
	assert.Equal(t, 0, q.Len())

	_, err = q.Add(nil)
	assert.ErrorIs(t, err, errNilAttestation)
}

func TestAttestationsBySlot_IncompleteVote(t *testing.T) {
	q := NewAttestationsBySlot()
	_, err := q.Add(ethpb.NewReceivedAttestation("peer", &ethpb.Attestation{
		AggregationBits: util.Bitlist(8, 1),
		Data:            &ethpb.AttestationData{Slot: 4},
	}))
	assert.ErrorIs(t, err, helpers.ErrNilAttestation)
	assert.Equal(t, 0, q.Len())
}

func TestAttestationsByTargetEpoch(t *testing.T) {
	q := NewAttestationsByTargetEpoch()
	e2 := attAt(slots.EpochStart(2)+3, [32]byte{}, 0)
	e3 := attAt(slots.EpochStart(3)+1, [32]byte{}, 0)
	e1 := attAt(slots.EpochStart(1), [32]byte{}, 0)
	for _, att := range []*ethpb.ReceivedAttestation{e2, e3, e1} {
		_, err := q.Add(att)
		require.NoError(t, err)
	}

	assert.Empty(t, q.OnTick(slots.EpochStart(1)-1))
	// Epoch 1 started: its bucket fires on the first slot.
	assert.Equal(t, []*ethpb.ReceivedAttestation{e1}, q.OnTick(slots.EpochStart(1)))
	// A tick missed for epoch 2 does not strand it.
	assert.Equal(t, []*ethpb.ReceivedAttestation{e2, e3}, q.OnTick(slots.EpochStart(3)+2))
	assert.Equal(t, 0, q.Len())
}

func TestAttestationsByBlockRoot(t *testing.T) {
	q := NewAttestationsByBlockRoot()
	r1, r2 := [32]byte{1}, [32]byte{2}
	a := attAt(1, r1, 0)
	b := attAt(1, r2, 0)
	c := attAt(2, r1, 3)
	for _, att := range []*ethpb.ReceivedAttestation{a, b, c} {
		_, err := q.Add(att)
		require.NoError(t, err)
	}
	assert.Equal(t, []*ethpb.ReceivedAttestation{a, c}, q.OnBlockImported(r1))
	assert.Empty(t, q.OnBlockImported(r1))
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, []*ethpb.ReceivedAttestation{b}, q.OnBlockImported(r2))
}

func TestBlocksByParent(t *testing.T) {
	q := NewBlocksByParent()
	parent := [32]byte{'p'}
	b1 := util.NewBeaconBlockAtSlot(4, parent, "one")
	b2 := util.NewBeaconBlockAtSlot(4, parent, "two")
	other := util.NewBeaconBlockAtSlot(5, [32]byte{'o'}, "other")

	for _, b := range []*ethpb.SignedBeaconBlock{b1, b2, other} {
		added, err := q.Add(b)
		require.NoError(t, err)
		assert.True(t, added)
	}
	added, err := q.Add(b1)
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, []*ethpb.SignedBeaconBlock{b1, b2}, q.OnBlockImported(parent))
	assert.Nil(t, q.OnBlockImported(parent))
	assert.Equal(t, 1, q.Len())

	_, err = q.Add(&ethpb.SignedBeaconBlock{})
	assert.Error(t, err)
}
