package pending

import (
	"github.com/ethbeacon/attpool/encoding/bytesutil"
	ethpb "github.com/ethbeacon/attpool/proto/prysm/v1alpha1"
	"github.com/pkg/errors"
)

// BlocksByParent holds blocks until their parent is imported.
type BlocksByParent struct {
	queue *keyedQueue[[32]byte, *ethpb.SignedBeaconBlock]
}

// NewBlocksByParent --
func NewBlocksByParent() *BlocksByParent {
	return &BlocksByParent{queue: newKeyedQueue[[32]byte]("blocks_by_parent", func(b *ethpb.SignedBeaconBlock) ([32]byte, error) {
		return b.Block.HashTreeRoot()
	})}
}

// Add queues blk under its parent root.
func (q *BlocksByParent) Add(blk *ethpb.SignedBeaconBlock) (bool, error) {
	if blk == nil || blk.Block == nil {
		return false, errors.New("nil block")
	}
	return q.queue.add(bytesutil.ToBytes32(blk.Block.ParentRoot), blk)
}

// OnBlockImported releases the children of the imported block as one batch.
func (q *BlocksByParent) OnBlockImported(root [32]byte) []*ethpb.SignedBeaconBlock {
	return q.queue.take(root)
}

// Len returns the number of queued blocks.
func (q *BlocksByParent) Len() int {
	return q.queue.len()
}
