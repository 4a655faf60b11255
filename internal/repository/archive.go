package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayo6706/circulation-scheduler/internal/models"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS simulation_history (
	id TEXT PRIMARY KEY,
	recorded_at TIMESTAMPTZ NOT NULL,
	config JSONB NOT NULL,
	involved_companies JSONB NOT NULL,
	total_volume BIGINT NOT NULL,
	transfer_count INTEGER NOT NULL,
	group_count INTEGER NOT NULL
);
`

// HistoryArchive keeps every history entry in Postgres. The Redis log only
// holds the most recent ones.
type HistoryArchive struct {
	db *pgxpool.Pool
}

func NewHistoryArchive(db *pgxpool.Pool) *HistoryArchive {
	return &HistoryArchive{db: db}
}

// EnsureSchema creates the archive table when missing.
func (a *HistoryArchive) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.Exec(ctx, historySchema); err != nil {
		return fmt.Errorf("ensure simulation_history: %w", err)
	}
	return nil
}

func (a *HistoryArchive) Insert(ctx context.Context, entry models.HistoryEntry) error {
	cfg, err := json.Marshal(entry.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	companies, err := json.Marshal(entry.InvolvedCompanies)
	if err != nil {
		return fmt.Errorf("encode companies: %w", err)
	}

	query := `INSERT INTO simulation_history (id, recorded_at, config, involved_companies, total_volume, transfer_count, group_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	tag, err := a.db.Exec(ctx, query, entry.ID, entry.Timestamp, cfg, companies, entry.TotalVolume, entry.TransferCount, entry.GroupCount)
	if err != nil {
		return fmt.Errorf("failed to archive history entry: %w", err)
	}
	return requireExactlyOne(tag.RowsAffected(), "archive history entry")
}

// List returns up to limit entries, newest first.
func (a *HistoryArchive) List(ctx context.Context, limit, offset int) ([]models.HistoryEntry, error) {
	query := `
		SELECT id, recorded_at, config, involved_companies, total_volume, transfer_count, group_count
		FROM simulation_history
		ORDER BY recorded_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := a.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var (
			e         models.HistoryEntry
			cfg       []byte
			companies []byte
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &cfg, &companies, &e.TotalVolume, &e.TransferCount, &e.GroupCount); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if err := json.Unmarshal(cfg, &e.Config); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
		if err := json.Unmarshal(companies, &e.InvolvedCompanies); err != nil {
			return nil, fmt.Errorf("decode companies: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func requireExactlyOne(rows int64, operation string) error {
	if rows != 1 {
		return fmt.Errorf("%s affected %d rows", operation, rows)
	}
	return nil
}
