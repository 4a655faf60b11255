package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ayo6706/circulation-scheduler/internal/models"
)

// ErrConflict is returned when optimistic retries are exhausted.
var ErrConflict = errors.New("concurrent store update")

const (
	keyAccounts  = "accounts"
	keyGroups    = "groups"
	keyConfig    = "config"
	keyTransfers = "transfers"
	keyHistory   = "history"

	maxTxRetries = 5
)

// State is the entity snapshot a transaction reads and writes back.
type State struct {
	Accounts  []models.Account
	Groups    []models.Group
	Transfers []models.Transfer
	// Config is nil until a configuration has been saved.
	Config *models.SimulationConfig

	history []models.HistoryEntry
}

// AppendHistory queues an entry to be pushed when the transaction commits.
func (s *State) AppendHistory(entry models.HistoryEntry) {
	s.history = append(s.history, entry)
}

// Store keeps accounts, groups, configuration, the current schedule and the
// history log as JSON documents in Redis.
type Store struct {
	rdb          redis.UniversalClient
	prefix       string
	historyLimit int64
}

// NewStore creates a store namespacing its keys under prefix.
func NewStore(rdb redis.UniversalClient, prefix string, historyLimit int) *Store {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &Store{rdb: rdb, prefix: prefix, historyLimit: int64(historyLimit)}
}

// Ping checks the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Snapshot reads the current state without a transaction.
func (s *Store) Snapshot(ctx context.Context) (*State, error) {
	return s.load(ctx, s.rdb)
}

// RunInTx loads the state under WATCH, hands it to fn and writes it back
// atomically. It retries when another writer touched the keys meanwhile.
func (s *Store) RunInTx(ctx context.Context, fn func(state *State) error) error {
	keys := []string{s.key(keyAccounts), s.key(keyGroups), s.key(keyConfig), s.key(keyTransfers)}

	for range maxTxRetries {
		err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
			state, err := s.load(ctx, tx)
			if err != nil {
				return err
			}
			if err := fn(state); err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				return s.write(ctx, pipe, state)
			})
			return err
		}, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrConflict
}

// History returns the newest entries first.
func (s *Store) History(ctx context.Context) ([]models.HistoryEntry, error) {
	raw, err := s.rdb.LRange(ctx, s.key(keyHistory), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	entries := make([]models.HistoryEntry, 0, len(raw))
	for _, item := range raw {
		var entry models.HistoryEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("decode history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ClearHistory drops the history log.
func (s *Store) ClearHistory(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key(keyHistory)).Err(); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, c redis.Cmdable) (*State, error) {
	state := &State{}
	if _, err := getJSON(ctx, c, s.key(keyAccounts), &state.Accounts); err != nil {
		return nil, err
	}
	if _, err := getJSON(ctx, c, s.key(keyGroups), &state.Groups); err != nil {
		return nil, err
	}
	if _, err := getJSON(ctx, c, s.key(keyTransfers), &state.Transfers); err != nil {
		return nil, err
	}
	var cfg models.SimulationConfig
	found, err := getJSON(ctx, c, s.key(keyConfig), &cfg)
	if err != nil {
		return nil, err
	}
	if found {
		state.Config = &cfg
	}
	return state, nil
}

func (s *Store) write(ctx context.Context, pipe redis.Pipeliner, state *State) error {
	docs := map[string]any{
		keyAccounts:  nonNil(state.Accounts),
		keyGroups:    nonNil(state.Groups),
		keyTransfers: nonNil(state.Transfers),
	}
	if state.Config != nil {
		docs[keyConfig] = state.Config
	}
	for name, doc := range docs {
		payload, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		pipe.Set(ctx, s.key(name), payload, 0)
	}

	if len(state.history) == 0 {
		return nil
	}
	for _, entry := range state.history {
		payload, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("encode history entry: %w", err)
		}
		pipe.LPush(ctx, s.key(keyHistory), payload)
	}
	pipe.LTrim(ctx, s.key(keyHistory), 0, s.historyLimit-1)
	return nil
}

func (s *Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + ":" + name
}

func getJSON(ctx context.Context, c redis.Cmdable, key string, dst any) (bool, error) {
	val, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
