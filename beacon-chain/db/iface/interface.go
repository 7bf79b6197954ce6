// Package iface defines the block store interface used by the beacon node,
// also containing scoped interfaces such as a ReadOnlyDatabase.
package iface

import (
	"context"
	"io"

	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
)

// ReadOnlyDatabase defines a struct which only has read access to database methods.
type ReadOnlyDatabase interface {
	// Block related methods.
	Block(ctx context.Context, blockRoot [32]byte) (*ethpb.SignedBeaconBlockHeader, error)
	HasBlock(ctx context.Context, blockRoot [32]byte) bool
	HeadBlockRoot(ctx context.Context) ([32]byte, error)
	// Checkpoint operations.
	JustifiedCheckpoint(ctx context.Context) (*ethpb.Checkpoint, error)
	FinalizedCheckpoint(ctx context.Context) (*ethpb.Checkpoint, error)
}

// NoHeadAccessDatabase defines a struct without access to chain head data.
type NoHeadAccessDatabase interface {
	ReadOnlyDatabase

	// Block related methods.
	SaveBlock(ctx context.Context, block *ethpb.SignedBeaconBlock) error
	SaveBlocks(ctx context.Context, blocks []*ethpb.SignedBeaconBlock) error
	// Checkpoint operations.
	SaveJustifiedCheckpoint(ctx context.Context, checkpoint *ethpb.Checkpoint) error
	SaveFinalizedCheckpoint(ctx context.Context, checkpoint *ethpb.Checkpoint) error
}

// HeadAccessDatabase defines a struct with access to reading chain head data.
type HeadAccessDatabase interface {
	NoHeadAccessDatabase

	SaveHeadBlockRoot(ctx context.Context, blockRoot [32]byte) error
}

// Database interface with full access.
type Database interface {
	io.Closer
	HeadAccessDatabase

	DatabasePath() string
	ClearDB() error
}
