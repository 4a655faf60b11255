package service

import (
	"context"

	"github.com/ayo6706/circulation-scheduler/internal/models"
)

// HistoryService exposes the run log and, when configured, the archive.
type HistoryService struct {
	store   EntityStore
	archive HistoryArchive
}

func NewHistoryService(store EntityStore, archive HistoryArchive) *HistoryService {
	return &HistoryService{store: store, archive: archive}
}

// List returns the recent runs, newest first.
func (s *HistoryService) List(ctx context.Context) ([]models.HistoryEntry, error) {
	return s.store.History(ctx)
}

func (s *HistoryService) Clear(ctx context.Context) error {
	return s.store.ClearHistory(ctx)
}

// HasArchive reports whether archived history can be listed.
func (s *HistoryService) HasArchive() bool {
	return s.archive != nil
}

// Archived pages through the archive. It returns ErrNotFound when no archive
// is configured.
func (s *HistoryService) Archived(ctx context.Context, page, pageSize int) ([]models.HistoryEntry, error) {
	if s.archive == nil {
		return nil, notFoundf("history archive is not configured")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return s.archive.List(ctx, pageSize, (page-1)*pageSize)
}
