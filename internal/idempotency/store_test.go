package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, "test", time.Minute), mr
}

func TestStore_ReserveFinalizeLookup(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_, err := store.Lookup(ctx, "k1", "h1")
	require.ErrorIs(t, err, ErrNotFound)

	ok, err := store.Reserve(ctx, "k1", "h1", "POST", "/v1/simulations")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("test:idempotency:k1"))
	assert.Equal(t, time.Minute, mr.TTL("test:idempotency:k1"))

	ok, err = store.Reserve(ctx, "k1", "h1", "POST", "/v1/simulations")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Lookup(ctx, "k1", "h1")
	require.ErrorIs(t, err, ErrInProgress)
	_, err = store.Lookup(ctx, "k1", "other")
	require.ErrorIs(t, err, ErrHashMismatch)

	_, err = store.Finalize(ctx, "k1", "h1", 201, []byte(`{"ok":true}`), "application/json")
	require.NoError(t, err)

	rec, err := store.Lookup(ctx, "k1", "h1")
	require.NoError(t, err)
	assert.Equal(t, 201, rec.Status)
	assert.JSONEq(t, `{"ok":true}`, string(rec.Body))
	assert.Equal(t, "application/json", rec.ContentType)
	assert.Equal(t, "redis", rec.ServedBy)
}

func TestStore_FinalizeWithoutReservation(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Finalize(context.Background(), "missing", "h", 200, nil, "application/json")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Release(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "k", "h", "POST", "/x")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, store.Release(ctx, "k"))

	ok, err = store.Reserve(ctx, "k", "h", "POST", "/x")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_WaitForCompletion(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "k", "h", "POST", "/x")
	require.NoError(t, err)
	require.True(t, ok)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = store.Finalize(ctx, "k", "h", 202, []byte("done"), "text/plain")
	}()

	rec, err := store.WaitForCompletion(ctx, "k", "h")
	require.NoError(t, err)
	assert.Equal(t, 202, rec.Status)

	ok, err = store.Reserve(ctx, "slow", "h", "POST", "/x")
	require.NoError(t, err)
	require.True(t, ok)
	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	_, err = store.WaitForCompletion(waitCtx, "slow", "h")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
