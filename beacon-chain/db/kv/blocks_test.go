package kv

import (
	"context"
	"testing"

	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/ethbeacon/attpool/testing/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveBlock_HeaderRootMatchesBlockRoot(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	blk := util.NewBeaconBlockAtSlot(5, [32]byte{'p'}, "a")
	root, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)
	assert.False(t, db.HasBlock(ctx, root))

	require.NoError(t, db.SaveBlock(ctx, blk))
	assert.True(t, db.HasBlock(ctx, root))

	header, err := db.Block(ctx, root)
	require.NoError(t, err)
	require.NotNil(t, header)
	assert.Equal(t, blk.Block.Slot, header.Header.Slot)
	headerRoot, err := header.Header.HashTreeRoot()
	require.NoError(t, err)
	assert.Equal(t, root, headerRoot)
}

func TestStore_Block_Unknown(t *testing.T) {
	db := setupDB(t)
	header, err := db.Block(context.Background(), [32]byte{'x'})
	require.NoError(t, err)
	assert.Nil(t, header)
}

func TestStore_Block_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	db, err := NewKVStore(dir, nil)
	require.NoError(t, err)
	blk := util.NewBeaconBlockAtSlot(9, [32]byte{}, "reopen")
	root, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)
	require.NoError(t, db.SaveBlock(ctx, blk))
	require.NoError(t, db.Close())

	db, err = NewKVStore(dir, nil)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close())
	}()
	header, err := db.Block(ctx, root)
	require.NoError(t, err)
	require.NotNil(t, header)
	assert.Equal(t, blk.Signature, header.Signature)
}

func TestStore_SaveBlocks(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	b1 := util.NewBeaconBlockAtSlot(1, [32]byte{}, "1")
	b2 := util.NewBeaconBlockAtSlot(2, [32]byte{}, "2")
	require.NoError(t, db.SaveBlocks(ctx, []*ethpb.SignedBeaconBlock{b1, b2}))
	for _, b := range []*ethpb.SignedBeaconBlock{b1, b2} {
		r, err := b.Block.HashTreeRoot()
		require.NoError(t, err)
		assert.True(t, db.HasBlock(ctx, r))
	}
	assert.ErrorContains(t, db.SaveBlocks(ctx, []*ethpb.SignedBeaconBlock{nil}), "cannot save nil block")
}

func TestStore_HeadBlockRoot(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	_, err := db.HeadBlockRoot(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	blk := util.NewBeaconBlockAtSlot(3, [32]byte{}, "head")
	root, err := blk.Block.HashTreeRoot()
	require.NoError(t, err)
	require.ErrorIs(t, db.SaveHeadBlockRoot(ctx, root), ErrNotFound)

	require.NoError(t, db.SaveBlock(ctx, blk))
	require.NoError(t, db.SaveHeadBlockRoot(ctx, root))
	head, err := db.HeadBlockRoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, root, head)
}
