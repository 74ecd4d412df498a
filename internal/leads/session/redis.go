// internal/leads/session/redis.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leadgen/internal/common/database"
	"leadgen/internal/leads/app"

	"github.com/redis/go-redis/v9"
)

var ErrConflict = errors.New("session update kept conflicting")

const maxTxRetries = 10

// RedisStore keeps sessions in redis. Updates use WATCH so concurrent
// writers to one session retry instead of overwriting each other.
type RedisStore struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	prefix string
}

func NewRedisStore(rdb redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, prefix: "session:"}
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) Get(ctx context.Context, id string) (app.Snapshot, error) {
	var snap app.Snapshot
	err := database.GetJSON(ctx, s.rdb, s.key(id), &snap)
	if errors.Is(err, database.ErrCacheMiss) {
		return app.NewSnapshot(), nil
	}
	if err != nil {
		return app.Snapshot{}, err
	}
	return snap, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(*app.Snapshot) error) (app.Snapshot, error) {
	key := s.key(id)

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		var out app.Snapshot
		err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
			snap, err := load(ctx, tx, key)
			if err != nil {
				return err
			}
			out = snap
			if err := fn(&snap); err != nil {
				return err
			}
			data, err := json.Marshal(snap)
			if err != nil {
				return fmt.Errorf("encode session: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, s.ttl)
				return nil
			})
			out = snap
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return out, err
	}
	return app.Snapshot{}, fmt.Errorf("%w: %s", ErrConflict, id)
}

func load(ctx context.Context, tx *redis.Tx, key string) (app.Snapshot, error) {
	data, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return app.NewSnapshot(), nil
	}
	if err != nil {
		return app.Snapshot{}, fmt.Errorf("redis get %s: %w", key, err)
	}
	var snap app.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return app.Snapshot{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return snap, nil
}
