package session

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// RedisClient defines the subset of Redis operations the store needs.
// Use GoRedis to adapt a github.com/redis/go-redis/v9 client.
type RedisClient interface {
	Get(ctx context.Context, key string) RedisStringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) RedisStatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) RedisBoolCmd
	Del(ctx context.Context, keys ...string) RedisIntCmd
	Close() error
}

// RedisStatusCmd represents a Redis status command result.
type RedisStatusCmd interface {
	Err() error
}

// RedisStringCmd represents a Redis string command result.
type RedisStringCmd interface {
	Bytes() ([]byte, error)
	Err() error
}

// RedisIntCmd represents a Redis int command result.
type RedisIntCmd interface {
	Err() error
}

// RedisBoolCmd represents a Redis bool command result.
type RedisBoolCmd interface {
	Result() (bool, error)
	Err() error
}

// ErrRedisNil is returned when a key doesn't exist in Redis.
var ErrRedisNil = errors.New("redis: nil")

// RedisStore is a Redis-backed store.
// It's suitable for multi-server deployments with shared state.
type RedisStore struct {
	client RedisClient
	prefix string
	closed atomic.Bool
}

// RedisStoreOption configures RedisStore behavior.
type RedisStoreOption func(*redisStoreConfig)

type redisStoreConfig struct {
	prefix string
}

// WithRedisPrefix sets the key prefix.
// Default: "hxstate:".
func WithRedisPrefix(prefix string) RedisStoreOption {
	return func(c *redisStoreConfig) {
		c.prefix = prefix
	}
}

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore(client RedisClient, opts ...RedisStoreOption) *RedisStore {
	cfg := &redisStoreConfig{
		prefix: "hxstate:",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &RedisStore{
		client: client,
		prefix: cfg.prefix,
	}
}

func (r *RedisStore) key(k string) string {
	return r.prefix + k
}

// Save stores data without expiry. Lifetime is the session's, which is
// managed outside this store.
func (r *RedisStore) Save(ctx context.Context, key string, data []byte) error {
	if r.closed.Load() {
		return ErrStoreClosed{}
	}
	return storeError("redis", "set", key, r.client.Set(ctx, r.key(key), data, 0).Err())
}

// Load retrieves data if it exists.
func (r *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	if r.closed.Load() {
		return nil, ErrStoreClosed{}
	}

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if isRedisNil(err) {
			return nil, nil
		}
		return nil, storeError("redis", "get", key, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// SaveIfAbsent uses SETNX so that exactly one concurrent caller wins.
func (r *RedisStore) SaveIfAbsent(ctx context.Context, key string, data []byte) ([]byte, bool, error) {
	if r.closed.Load() {
		return nil, false, ErrStoreClosed{}
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		ok, err := r.client.SetNX(ctx, r.key(key), data, 0).Result()
		if err != nil {
			return nil, false, storeError("redis", "setnx", key, err)
		}
		if ok {
			return cloneBytes(data), true, nil
		}
		current, err := r.Load(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if current != nil {
			return current, false, nil
		}
	}
	return nil, false, storeError("redis", "setnx", key, errCreateRace)
}

// Delete removes a key from Redis.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if r.closed.Load() {
		return ErrStoreClosed{}
	}
	return storeError("redis", "del", key, r.client.Del(ctx, r.key(key)).Err())
}

// Close marks the store as closed.
// Note: This does not close the underlying Redis client,
// as it may be shared with other components.
func (r *RedisStore) Close() error {
	r.closed.Store(true)
	return nil
}

// Prefix returns the current key prefix.
func (r *RedisStore) Prefix() string {
	return r.prefix
}

func isRedisNil(err error) bool {
	return errors.Is(err, ErrRedisNil) || err.Error() == ErrRedisNil.Error()
}
