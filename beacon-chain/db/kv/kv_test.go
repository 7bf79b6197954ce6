package kv

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupDB instantiates and returns a Store instance.
func setupDB(t testing.TB) *Store {
	db, err := NewKVStore(t.TempDir(), &Config{})
	require.NoError(t, err, "Failed to instantiate DB")
	t.Cleanup(func() {
		require.NoError(t, db.Close(), "Failed to close database")
	})
	return db
}

func TestStore_ClearDB(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.ClearDB())
	_, err := db.HeadBlockRoot(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_BoltCollector(t *testing.T) {
	db, err := NewKVStore(t.TempDir(), &Config{})
	require.NoError(t, err)

	var already prometheus.AlreadyRegisteredError
	err = prometheus.Register(createBoltCollector(db.db))
	assert.ErrorAs(t, err, &already, "Store should register its bolt collector")

	require.NoError(t, db.Close())
	collector := createBoltCollector(db.db)
	require.NoError(t, prometheus.Register(collector), "Close should unregister the bolt collector")
	assert.True(t, prometheus.Unregister(collector))
}
