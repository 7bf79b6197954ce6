package kv

import (
	"context"

	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

// Block retrieves the signed header of the block with the given root. A nil
// header and no error are returned when the block is unknown.
func (s *Store) Block(ctx context.Context, blockRoot [32]byte) (*ethpb.SignedBeaconBlockHeader, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.Block")
	defer span.End()

	if v, ok := s.blockCache.Get(string(blockRoot[:])); v != nil && ok {
		return v.(*ethpb.SignedBeaconBlockHeader), nil
	}
	var header *ethpb.SignedBeaconBlockHeader
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(blocksBucket).Get(blockRoot[:])
		if enc == nil {
			return nil
		}
		header = &ethpb.SignedBeaconBlockHeader{}
		return decode(ctx, enc, header)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not read block %#x", blockRoot)
	}
	return header, nil
}

// HasBlock checks if a block by root exists in the db.
func (s *Store) HasBlock(ctx context.Context, blockRoot [32]byte) bool {
	_, span := trace.StartSpan(ctx, "BeaconDB.HasBlock")
	defer span.End()

	if v, ok := s.blockCache.Get(string(blockRoot[:])); v != nil && ok {
		return true
	}
	exists := false
	if err := s.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(blocksBucket).Get(blockRoot[:]) != nil
		return nil
	}); err != nil { // This view never returns an error, but we'll handle anyway for sanity.
		panic(err)
	}
	return exists
}

// SaveBlock stores the header of the block under its root.
func (s *Store) SaveBlock(ctx context.Context, block *ethpb.SignedBeaconBlock) error {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.SaveBlock")
	defer span.End()

	return s.SaveBlocks(ctx, []*ethpb.SignedBeaconBlock{block})
}

// SaveBlocks stores the headers of the given blocks in a single transaction.
func (s *Store) SaveBlocks(ctx context.Context, blocks []*ethpb.SignedBeaconBlock) error {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.SaveBlocks")
	defer span.End()

	roots := make([][32]byte, len(blocks))
	headers := make([]*ethpb.SignedBeaconBlockHeader, len(blocks))
	encoded := make([][]byte, len(blocks))
	for i, blk := range blocks {
		if blk == nil || blk.Block == nil {
			return errors.New("cannot save nil block")
		}
		root, err := blk.Block.HashTreeRoot()
		if err != nil {
			return errors.Wrap(err, "could not hash block")
		}
		header, err := blk.SignedHeader()
		if err != nil {
			return errors.Wrap(err, "could not build block header")
		}
		enc, err := encode(ctx, header)
		if err != nil {
			return err
		}
		roots[i], headers[i], encoded[i] = root, header, enc
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(blocksBucket)
		for i := range roots {
			if err := bkt.Put(roots[i][:], encoded[i]); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return errors.Wrap(err, "could not save blocks")
	}
	for i := range roots {
		s.blockCache.Set(string(roots[i][:]), headers[i], int64(len(encoded[i])))
	}
	return nil
}

// HeadBlockRoot returns the root of the current chain head.
func (s *Store) HeadBlockRoot(ctx context.Context) ([32]byte, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.HeadBlockRoot")
	defer span.End()

	var root [32]byte
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(chainMetadataBucket).Get(headBlockRootKey)
		if enc == nil {
			return ErrNotFound
		}
		copy(root[:], enc)
		return nil
	})
	return root, err
}

// SaveHeadBlockRoot records the root of the current chain head. The block
// must already be stored.
func (s *Store) SaveHeadBlockRoot(ctx context.Context, blockRoot [32]byte) error {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.SaveHeadBlockRoot")
	defer span.End()

	if !s.HasBlock(ctx, blockRoot) {
		return errors.Wrapf(ErrNotFound, "no block with root %#x", blockRoot)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(chainMetadataBucket).Put(headBlockRootKey, blockRoot[:])
	})
}
