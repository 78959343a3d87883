package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// GoRedis adapts a go-redis client (single node, cluster or ring) to RedisClient.
func GoRedis(c redis.Cmdable) RedisClient {
	return goRedisClient{c: c}
}

type goRedisClient struct {
	c redis.Cmdable
}

func (g goRedisClient) Get(ctx context.Context, key string) RedisStringCmd {
	return goRedisStringCmd{g.c.Get(ctx, key)}
}

func (g goRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) RedisStatusCmd {
	return g.c.Set(ctx, key, value, expiration)
}

func (g goRedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) RedisBoolCmd {
	return g.c.SetNX(ctx, key, value, expiration)
}

func (g goRedisClient) Del(ctx context.Context, keys ...string) RedisIntCmd {
	return g.c.Del(ctx, keys...)
}

func (g goRedisClient) Close() error {
	if closer, ok := g.c.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// goRedisStringCmd maps redis.Nil onto ErrRedisNil.
type goRedisStringCmd struct {
	cmd *redis.StringCmd
}

func (s goRedisStringCmd) Bytes() ([]byte, error) {
	b, err := s.cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRedisNil
	}
	return b, err
}

func (s goRedisStringCmd) Err() error {
	if errors.Is(s.cmd.Err(), redis.Nil) {
		return ErrRedisNil
	}
	return s.cmd.Err()
}
