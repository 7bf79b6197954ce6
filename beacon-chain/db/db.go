// Package db defines the block store of the beacon node.
package db

import (
	"github.com/ethbeacon/attpool/beacon-chain/db/iface"
	"github.com/ethbeacon/attpool/beacon-chain/db/kv"
)

// ReadOnlyDatabase exposes the block store in a read-only manner.
type ReadOnlyDatabase = iface.ReadOnlyDatabase

// NoHeadAccessDatabase exposes the block store without head data.
type NoHeadAccessDatabase = iface.NoHeadAccessDatabase

// HeadAccessDatabase exposes the block store with head data.
type HeadAccessDatabase = iface.HeadAccessDatabase

// Database defines the necessary methods for the block store.
type Database = iface.Database

// ErrNotFound is returned when a record is not present in the store.
var ErrNotFound = kv.ErrNotFound

// NewDB initializes a new DB.
func NewDB(dirPath string, cfg *kv.Config) (Database, error) {
	return kv.NewKVStore(dirPath, cfg)
}
