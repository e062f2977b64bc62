package redisrepo

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Default interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisRepository struct {
	Default
}

func New(rdb redis.UniversalClient, prefix string) *RedisRepository {
	return &RedisRepository{
		Default: newDefaultRepo(rdb, prefix),
	}
}

// NewLocal keeps the cache in process memory. It backs development setups without a
// Redis server and the package tests of the layers above.
func NewLocal() *RedisRepository {
	return &RedisRepository{
		Default: newLocalRepo(),
	}
}
