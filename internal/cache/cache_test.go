package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// verifyStore runs the Store contract against a backend. Stores must be
// constructed with a 50ms default TTL so the fallback case expires
// within the sleep below.
func verifyStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "absent")
	require.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, store.Set(ctx, "greeting", []byte("hello"), time.Minute))
	got, err := store.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	require.NoError(t, store.Set(ctx, "ephemeral", []byte("gone soon"), 40*time.Millisecond))
	require.NoError(t, store.Set(ctx, "fallback", []byte("default ttl"), 0))
	_, err = store.Get(ctx, "ephemeral")
	require.NoError(t, err)

	time.Sleep(120 * time.Millisecond)

	_, err = store.Get(ctx, "ephemeral")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = store.Get(ctx, "fallback")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Long-lived entry is untouched by the expiries around it.
	got, err = store.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	require.NoError(t, store.Delete(ctx, "greeting"))
	_, err = store.Get(ctx, "greeting")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, store.Delete(ctx, "never-existed"))
	require.NoError(t, store.Ping(ctx))
}
