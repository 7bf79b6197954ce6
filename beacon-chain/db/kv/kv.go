// Package kv defines a bolt-db, key-value store implementation
// of the Database interface defined by a beacon node.
package kv

import (
	"os"
	"path"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/ethbeacon/attpool/beacon-chain/db/iface"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	prombbolt "github.com/prysmaticlabs/prombbolt"
	bolt "go.etcd.io/bbolt"
)

var _ iface.Database = (*Store)(nil)

const (
	// DatabaseFileName is the name of the beacon node database.
	DatabaseFileName = "beaconchain.db"

	boltAllocSize = 8 * 1024 * 1024
)

// BlockCacheSize specifies 1000 slots worth of blocks cached, which
// would be approximately 2MB of headers.
var BlockCacheSize = int64(1 << 21)

// Config for the bolt db kv store.
type Config struct {
	InitialMMapSize int
}

// Store defines an implementation of the Database interface
// using BoltDB as the underlying persistent kv-store for the beacon node.
type Store struct {
	db           *bolt.DB
	databasePath string
	blockCache   *ristretto.Cache
}

// NewKVStore initializes a new boltDB key-value store at the directory
// path specified, creates the kv-buckets based on the schema, and stores
// an open connection db object as a property of the Store struct.
func NewKVStore(dirPath string, cfg *Config) (*Store, error) {
	hasDir, err := hasDir(dirPath)
	if err != nil {
		return nil, err
	}
	if !hasDir {
		if err := os.MkdirAll(dirPath, 0700); err != nil {
			return nil, err
		}
	}
	if cfg == nil {
		cfg = &Config{}
	}
	datafile := path.Join(dirPath, DatabaseFileName)
	boltDB, err := bolt.Open(
		datafile,
		0600,
		&bolt.Options{
			Timeout:         1 * time.Second,
			InitialMmapSize: cfg.InitialMMapSize,
		},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errors.New("cannot obtain database lock, database may be in use by another process")
		}
		return nil, err
	}
	boltDB.AllocSize = boltAllocSize
	blockCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,           // number of keys to track frequency of (1000).
		MaxCost:     BlockCacheSize, // maximum cost of cache (1000 headers).
		BufferItems: 64,             // number of keys per Get buffer.
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create block cache")
	}

	kv := &Store{
		db:           boltDB,
		databasePath: dirPath,
		blockCache:   blockCache,
	}
	if err := kv.db.Update(func(tx *bolt.Tx) error {
		return createBuckets(
			tx,
			blocksBucket,
			chainMetadataBucket,
			checkpointBucket,
		)
	}); err != nil {
		return nil, err
	}
	if err := prometheus.Register(createBoltCollector(kv.db)); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
	}
	log.WithField("path", datafile).Debug("Opened block store")
	return kv, nil
}

// ClearDB removes the previously stored database in the data directory.
func (s *Store) ClearDB() error {
	if _, err := os.Stat(s.databasePath); os.IsNotExist(err) {
		return nil
	}
	s.blockCache.Clear()
	if err := os.Remove(path.Join(s.databasePath, DatabaseFileName)); err != nil {
		return errors.Wrap(err, "could not remove database file")
	}
	return nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	prometheus.Unregister(createBoltCollector(s.db))
	s.blockCache.Close()
	return s.db.Close()
}

// DatabasePath at which this database writes files.
func (s *Store) DatabasePath() string {
	return s.databasePath
}

// createBoltCollector returns a prometheus collector specifically configured for boltdb.
func createBoltCollector(db *bolt.DB) prometheus.Collector {
	return prombbolt.New("boltDB", db, blocksBucket, checkpointBucket)
}

func createBuckets(tx *bolt.Tx, buckets ...[]byte) error {
	for _, bucket := range buckets {
		if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
			return err
		}
	}
	return nil
}

func hasDir(dirPath string) (bool, error) {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
