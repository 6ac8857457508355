package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage shares one session between processes, the way browser tabs
// share local storage. A cooperating fleet of workers pointed at the same key
// sees refreshes performed by any of them, which is what makes the client's
// refresh cooldown heuristic meaningful outside a single process.
type RedisStorage struct {
	rdb    *redis.Client
	key    string
	maxAge time.Duration
}

// NewRedisStorage returns a store writing under prefix (default "safestreet")
// with an optional expiry; maxAge <= 0 persists the blob until cleared.
func NewRedisStorage(rdb *redis.Client, prefix string, maxAge time.Duration) (*RedisStorage, error) {
	if rdb == nil {
		return nil, errors.New("redis client required")
	}
	if prefix == "" {
		prefix = "safestreet"
	}
	return &RedisStorage{
		rdb:    rdb,
		key:    prefix + ":session",
		maxAge: maxAge,
	}, nil
}

// Load implements Storage.
func (r *RedisStorage) Load(ctx context.Context) (*Session, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("session: redis get: %w", err)
	}
	return Decode(data)
}

// Save implements Storage.
func (r *RedisStorage) Save(ctx context.Context, s *Session) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.key, data, r.maxAge).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}

// Clear implements Storage. Deleting a missing key is not an error.
func (r *RedisStorage) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}
