package registry

import (
	"context"
	"testing"

	dbtest "github.com/ethbeacon/attpool/beacon-chain/db/testing"
	"github.com/ethbeacon/attpool/config/params"
	"github.com/ethbeacon/attpool/consensus-types/primitives"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/testing/util"
	"github.com/ethbeacon/attpool/time/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func voteFor(t *testing.T, blk *ethpb.SignedBeaconBlock, target primitives.Epoch) *ethpb.ReceivedAttestation {
	r, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)
	att := util.HydrateAttestation(&ethpb.Attestation{
		AggregationBits: util.Bitlist(8, 2),
		Data: &ethpb.AttestationData{
			Slot:            slots.EpochStart(target),
			BeaconBlockRoot: r[:],
			Target:          &ethpb.Checkpoint{Epoch: target},
		},
	})
	return ethpb.NewReceivedAttestation("peer", att)
}

func TestUnknownBlockPool_RequiresSlot(t *testing.T) {
	ctx := context.Background()
	pool := NewUnknownBlockPool(dbtest.SetupDB(t), 1, 10)
	assert.Equal(t, Uninitialized, pool.State())

	blk := util.NewBeaconBlockAtSlot(1, [32]byte{}, "a")
	_, err := pool.Add(ctx, voteFor(t, blk, 0))
	assert.ErrorIs(t, err, ErrPoolNotInitialized)
	_, err = pool.FeedNewImportedBlock(ctx, blk)
	assert.ErrorIs(t, err, ErrPoolNotInitialized)

	pool.FeedNewSlot(0)
	assert.Equal(t, Ready, pool.State())
	_, err = pool.Add(ctx, voteFor(t, blk, 0))
	assert.NoError(t, err)
}

func TestUnknownBlockPool_ReleasesOnImport(t *testing.T) {
	ctx := context.Background()
	db := dbtest.SetupDB(t)
	pool := NewUnknownBlockPool(db, params.BeaconConfig().MaxAttestationLookahead, 10)

	slot := slots.EpochStart(1) + 1
	pool.FeedNewSlot(slot)
	blk := util.NewBeaconBlockAtSlot(slot, [32]byte{}, "b")
	vote := voteFor(t, blk, 1)

	parked, err := pool.Add(ctx, vote)
	require.NoError(t, err)
	assert.True(t, parked)
	assert.Equal(t, 1, pool.Size())

	released, err := pool.FeedNewImportedBlock(ctx, blk)
	require.NoError(t, err)
	assert.Equal(t, []*ethpb.ReceivedAttestation{vote}, released)

	released, err = pool.FeedNewImportedBlock(ctx, blk)
	require.NoError(t, err)
	assert.Empty(t, released, "attestation must be released exactly once")
	assert.Equal(t, 0, pool.Size())
}

func TestUnknownBlockPool_KnownBlockProceeds(t *testing.T) {
	ctx := context.Background()
	db := dbtest.SetupDB(t)
	pool := NewUnknownBlockPool(db, 1, 10)
	pool.FeedNewSlot(3)

	blk := util.NewBeaconBlockAtSlot(2, [32]byte{}, "known")
	require.NoError(t, db.SaveBlock(ctx, blk))

	parked, err := pool.Add(ctx, voteFor(t, blk, 0))
	require.NoError(t, err)
	assert.False(t, parked)
	assert.Equal(t, 0, pool.Size())
}

func TestUnknownBlockPool_BlockOutsideWindowReleasesNothing(t *testing.T) {
	ctx := context.Background()
	pool := NewUnknownBlockPool(dbtest.SetupDB(t), 1, 10)
	pool.FeedNewSlot(slots.EpochStart(1))

	far := util.NewBeaconBlockAtSlot(slots.EpochStart(9), [32]byte{}, "far")
	parked, err := pool.Add(ctx, voteFor(t, far, 1))
	require.NoError(t, err)
	require.True(t, parked)

	released, err := pool.FeedNewImportedBlock(ctx, far)
	require.NoError(t, err)
	assert.Empty(t, released)
	assert.Equal(t, 1, pool.Size())
}

func TestUnknownBlockPool_DropsVotesOutsideWindow(t *testing.T) {
	ctx := context.Background()
	pool := NewUnknownBlockPool(dbtest.SetupDB(t), 1, 10)
	pool.FeedNewSlot(slots.EpochStart(4))

	blk := util.NewBeaconBlockAtSlot(slots.EpochStart(4), [32]byte{}, "missing")
	for _, target := range []primitives.Epoch{2, 6} {
		parked, err := pool.Add(ctx, voteFor(t, blk, target))
		assert.ErrorIs(t, err, ErrOutsideWindow, "target epoch %d", target)
		assert.False(t, parked)
	}
	assert.Equal(t, 0, pool.Size())

	parked, err := pool.Add(ctx, voteFor(t, blk, 5))
	require.NoError(t, err)
	assert.True(t, parked)
	assert.Equal(t, 1, pool.Size())
}

func TestUnknownBlockPool_FeedNewSlot(t *testing.T) {
	pool := NewUnknownBlockPool(dbtest.SetupDB(t), 1, 10)

	pool.FeedNewSlot(0)
	baseline, ok := pool.queue.Baseline()
	require.True(t, ok)
	assert.Equal(t, primitives.Epoch(0), baseline, "genesis keeps the genesis epoch")

	pool.FeedNewSlot(slots.EpochStart(3) + 4)
	baseline, _ = pool.queue.Baseline()
	assert.Equal(t, primitives.Epoch(2), baseline)

	// Later slots of the same epoch leave the window alone.
	pool.FeedNewSlot(slots.EpochStart(3) + 5)
	baseline, _ = pool.queue.Baseline()
	assert.Equal(t, primitives.Epoch(2), baseline)
	assert.Equal(t, primitives.Epoch(3), pool.queue.TrackedEpochs())
}
