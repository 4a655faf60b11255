// Package idempotency stores the first response to a keyed mutating request
// so retries replay it instead of running the request again.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound     = errors.New("idempotency key not found")
	ErrHashMismatch = errors.New("idempotency key body mismatch")
	ErrInProgress   = errors.New("idempotency key in progress")
)

const redisKeyPrefix = "idempotency"

type Record struct {
	Key         string
	RequestHash string
	Status      int
	Body        []byte
	ContentType string
	ServedBy    string
}

// Store keeps reservations and finished responses in Redis under a TTL.
type Store struct {
	redis  redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewStore(rdb redis.Cmdable, prefix string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{redis: rdb, prefix: prefix, ttl: ttl}
}

type envelope struct {
	Key         string `json:"key"`
	Hash        string `json:"hash"`
	Method      string `json:"method,omitempty"`
	Path        string `json:"path,omitempty"`
	InProgress  bool   `json:"in_progress"`
	Status      int    `json:"status,omitempty"`
	Body        []byte `json:"body,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

func (s *Store) Lookup(ctx context.Context, key, requestHash string) (*Record, error) {
	env, err := s.get(ctx, key)
	if err != nil {
		return nil, err
	}
	if env.Hash != requestHash {
		return nil, ErrHashMismatch
	}
	if env.InProgress {
		return nil, ErrInProgress
	}
	return &Record{
		Key:         env.Key,
		RequestHash: env.Hash,
		Status:      env.Status,
		Body:        env.Body,
		ContentType: env.ContentType,
		ServedBy:    "redis",
	}, nil
}

// Reserve claims key for the caller. It returns false when another request
// already holds or finished the key.
func (s *Store) Reserve(ctx context.Context, key, requestHash, method, path string) (bool, error) {
	payload, err := json.Marshal(envelope{Key: key, Hash: requestHash, Method: method, Path: path, InProgress: true})
	if err != nil {
		return false, fmt.Errorf("encode idempotency reservation: %w", err)
	}
	ok, err := s.redis.SetNX(ctx, s.redisKey(key), payload, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserve idempotency key: %w", err)
	}
	return ok, nil
}

// Finalize replaces the reservation with the response.
func (s *Store) Finalize(ctx context.Context, key, requestHash string, status int, body []byte, contentType string) (*Record, error) {
	env, err := s.get(ctx, key)
	if err != nil {
		return nil, err
	}
	if env.Hash != requestHash {
		return nil, ErrHashMismatch
	}

	env.InProgress = false
	env.Status = status
	env.Body = body
	env.ContentType = contentType
	payload, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode idempotency record: %w", err)
	}
	if err := s.redis.Set(ctx, s.redisKey(key), payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("finalize idempotency key: %w", err)
	}
	return &Record{
		Key:         key,
		RequestHash: requestHash,
		Status:      status,
		Body:        body,
		ContentType: contentType,
		ServedBy:    "redis",
	}, nil
}

// Release drops a reservation so the request can be retried.
func (s *Store) Release(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

func (s *Store) WaitForCompletion(ctx context.Context, key, requestHash string) (*Record, error) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		rec, err := s.Lookup(ctx, key, requestHash)
		if err == nil {
			return rec, nil
		}
		if errors.Is(err, ErrInProgress) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-ticker.C:
				continue
			}
		}
		return nil, err
	}
}

func (s *Store) get(ctx context.Context, key string) (*envelope, error) {
	val, err := s.redis.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup idempotency key: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(val, &env); err != nil {
		return nil, fmt.Errorf("decode idempotency key: %w", err)
	}
	return &env, nil
}

func (s *Store) redisKey(key string) string {
	if s.prefix == "" {
		return fmt.Sprintf("%s:%s", redisKeyPrefix, key)
	}
	return fmt.Sprintf("%s:%s:%s", s.prefix, redisKeyPrefix, key)
}
