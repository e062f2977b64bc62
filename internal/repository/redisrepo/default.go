package redisrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultRepo namespaces every key under prefix so several deployments can share one
// Redis database.
type defaultRepo struct {
	rdb    redis.UniversalClient
	prefix string
}

func newDefaultRepo(rdb redis.UniversalClient, prefix string) Default {
	if prefix != "" {
		prefix += ":"
	}

	return &defaultRepo{
		rdb:    rdb,
		prefix: prefix,
	}
}

func (r *defaultRepo) key(key string) string {
	return r.prefix + key
}

func (r *defaultRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return r.rdb.Set(ctx, r.key(key), value, ttl).Err()
}

func (r *defaultRepo) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return r.Set(ctx, key, raw, ttl)
}

func (r *defaultRepo) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.rdb.Get(ctx, r.key(key))
}

func (r *defaultRepo) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	namespaced := make([]string, len(keys))
	for i, key := range keys {
		namespaced[i] = r.key(key)
	}
	return r.rdb.Del(ctx, namespaced...)
}

// Get decodes the JSON value stored at key. A missing key surfaces as redis.Nil.
func Get[T any](r Default, ctx context.Context, key string) (*T, error) {
	raw, err := r.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}

	return &value, nil
}
