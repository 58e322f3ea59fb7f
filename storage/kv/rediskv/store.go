package rediskv

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/darasa/core"
)

// Store keeps snapshots as JSON strings under `<prefix><name>` keys.
type Store struct {
	rdb    *redis.Client
	prefix string
}

var _ core.SnapshotStore = (*Store)(nil) // interface compliance check

// Open connects to redis and waits for it to be ready.
func Open(ctx context.Context, conf *core.Config) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.Storage.RedisAddr,
		Password: conf.Storage.RedisPassword,
		DB:       conf.Storage.RedisDB,
	})
	if err := ping(ctx, rdb, 30); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return NewStore(rdb, conf.Storage.RedisKeyPrefix), nil
}

func NewStore(rdb *redis.Client, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

// ping waits for redis to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, rdb *redis.Client, maxAttempts int) error {
	var err error
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = rdb.Ping(ctx).Err(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "redis ping")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
	return errors.Wrap(err, "redis ping timeout")
}

func (s *Store) key(name string) string { return s.prefix + name }

func (s *Store) Load(ctx context.Context, name string, v interface{}) error {
	data, err := s.rdb.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return core.ErrSnapshotNotFound
		}
		return errors.Wrap(err, "reading snapshot")
	}
	return errors.Wrap(json.Unmarshal(data, v), "decoding snapshot")
}

func (s *Store) Save(ctx context.Context, name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encoding snapshot")
	}
	return errors.Wrap(s.rdb.Set(ctx, s.key(name), data, 0).Err(), "writing snapshot")
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
