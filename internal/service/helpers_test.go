package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ayo6706/circulation-scheduler/internal/models"
	"github.com/ayo6706/circulation-scheduler/internal/repository"
)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return repository.NewStore(client, "svc", 50)
}

func seed(t *testing.T, store *repository.Store, fn func(state *repository.State)) {
	t.Helper()
	require.NoError(t, store.RunInTx(context.Background(), func(state *repository.State) error {
		fn(state)
		return nil
	}))
}

func snapshot(t *testing.T, store *repository.Store) *repository.State {
	t.Helper()
	state, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	return state
}

type fakeArchive struct {
	entries []models.HistoryEntry
	limit   int
	offset  int
	err     error
}

func (f *fakeArchive) Insert(_ context.Context, entry models.HistoryEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeArchive) List(_ context.Context, limit, offset int) ([]models.HistoryEntry, error) {
	f.limit, f.offset = limit, offset
	return f.entries, nil
}

func ptr[T any](v T) *T { return &v }
