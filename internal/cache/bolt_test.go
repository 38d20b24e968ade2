package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func newBoltStore(t *testing.T, defaultTTL time.Duration) *BoltStore {
	t.Helper()
	store, err := OpenBolt(filepath.Join(t.TempDir(), "cache.db"), defaultTTL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBoltStoreContract(t *testing.T) {
	verifyStore(t, newBoltStore(t, 50*time.Millisecond))
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := OpenBolt(path, time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "recipes", []byte(`[{"name":"Garlic Bread"}]`), time.Minute))
	require.NoError(t, store.Close())

	reopened, err := OpenBolt(path, time.Minute)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "recipes")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"name":"Garlic Bread"}]`), got)
}

func TestBoltStoreDropsExpiredEntryOnRead(t *testing.T) {
	ctx := context.Background()
	store := newBoltStore(t, time.Minute)

	require.NoError(t, store.Set(ctx, "ephemeral", []byte("x"), 20*time.Millisecond))
	time.Sleep(60 * time.Millisecond)

	_, err := store.Get(ctx, "ephemeral")
	require.ErrorIs(t, err, ErrCacheMiss)

	// The expired entry was deleted, not just hidden.
	var raw []byte
	require.NoError(t, store.db.View(func(tx *bolt.Tx) error {
		raw = tx.Bucket(boltBucket).Get([]byte("ephemeral"))
		return nil
	}))
	assert.Nil(t, raw)
}
