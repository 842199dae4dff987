package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key used when RedisOptions.Key is empty.
const DefaultRedisKey = "roster:users"

// RedisOptions configure the redis backend.
type RedisOptions struct {
	Addr        string
	Password    string
	DB          int
	Key         string
	DialTimeout time.Duration
}

// Redis keeps the snapshot under one redis key with no expiry.
type Redis struct {
	db  *redis.Client
	key string
}

var _ Backend = (*Redis)(nil)

// NewRedis connects and pings the server.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	const op = "snapshot.NewRedis"
	if opts.Addr == "" {
		return nil, fmt.Errorf("%s: redis address is required", op)
	}
	if opts.Key == "" {
		opts.Key = DefaultRedisKey
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 2 * time.Second
	}
	db := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})
	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Redis{db: db, key: opts.Key}, nil
}

// Key returns the redis key holding the snapshot.
func (r *Redis) Key() string {
	return r.key
}

func (r *Redis) Read(ctx context.Context) ([]byte, error) {
	const op = "snapshot.Redis.Read"
	data, err := r.db.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

func (r *Redis) Write(ctx context.Context, data []byte) error {
	const op = "snapshot.Redis.Write"
	if err := r.db.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.db.Close()
}
