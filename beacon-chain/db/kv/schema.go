package kv

// The schema will define how to store and retrieve data from the db.
// Blocks are stored as signed headers keyed by block root, which is also the
// header root.
var (
	blocksBucket        = []byte("blocks")
	chainMetadataBucket = []byte("chain-metadata")
	checkpointBucket    = []byte("check-point")

	// Specific item keys.
	headBlockRootKey       = []byte("head-root")
	justifiedCheckpointKey = []byte("justified-checkpoint")
	finalizedCheckpointKey = []byte("finalized-checkpoint")
)
