package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis session store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisSessionRepo stores each session as a single Redis string.
type RedisSessionRepo struct {
	rdb    *goredis.Client
	prefix string
}

// OpenRedis connects to Redis and verifies the connection with a ping.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisSessionRepo, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisSessionRepo(rdb, opts.Prefix), nil
}

// NewRedisSessionRepo wraps an existing client.
func NewRedisSessionRepo(rdb *goredis.Client, prefix string) *RedisSessionRepo {
	if prefix == "" {
		prefix = "studyplan:session:"
	}
	return &RedisSessionRepo{rdb: rdb, prefix: prefix}
}

func (r *RedisSessionRepo) key(k string) string {
	return r.prefix + k
}

func (r *RedisSessionRepo) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return data, nil
}

func (r *RedisSessionRepo) Save(ctx context.Context, key string, data []byte) error {
	if err := r.rdb.Set(ctx, r.key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (r *RedisSessionRepo) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (r *RedisSessionRepo) Close() error {
	return r.rdb.Close()
}
