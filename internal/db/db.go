package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing for the history archive.
const (
	archiveMaxConns     = 4
	archiveMinConns     = 1
	archiveConnLifetime = time.Hour
	archiveConnIdle     = 30 * time.Minute
	connectTimeout      = 5 * time.Second
)

// Connect opens the archive pool and pings it.
func Connect(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	config.MaxConns = archiveMaxConns
	config.MinConns = archiveMinConns
	config.MaxConnLifetime = archiveConnLifetime
	config.MaxConnIdleTime = archiveConnIdle

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create archive pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping archive database: %w", err)
	}

	return pool, nil
}

// ConnectOptional returns a nil pool when dbURL is empty.
func ConnectOptional(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	if dbURL == "" {
		return nil, nil
	}
	return Connect(ctx, dbURL)
}
