package service

import (
	"context"

	"github.com/ayo6706/circulation-scheduler/internal/models"
	"github.com/ayo6706/circulation-scheduler/internal/repository"
)

// EntityStore defines the minimal data access contract required by services.
type EntityStore interface {
	Snapshot(ctx context.Context) (*repository.State, error)
	RunInTx(ctx context.Context, fn func(state *repository.State) error) error
	History(ctx context.Context) ([]models.HistoryEntry, error)
	ClearHistory(ctx context.Context) error
}

// HistoryArchive receives every recorded run. It is optional.
type HistoryArchive interface {
	Insert(ctx context.Context, entry models.HistoryEntry) error
	List(ctx context.Context, limit, offset int) ([]models.HistoryEntry, error)
}
