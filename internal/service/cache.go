package service

import (
	"context"
	"time"

	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultCacheTTL = time.Hour

type cache struct {
	logger *zap.Logger
	repo   *repository.Repository
	ttl    time.Duration
}

// getCached returns the cached value at key, or nil on a miss.
func getCached[T any](c *cache, ctx context.Context, key string) (*T, error) {
	value, err := redisrepo.Get[T](c.repo.Redis.Default, ctx, key)
	if err == nil {
		return value, nil
	}
	if err == redis.Nil {
		return nil, nil
	}

	c.logger.Sugar().Errorf("failed to get key(%s) from redis: %s", key, err.Error())
	return nil, ErrInternal
}

func (c *cache) set(ctx context.Context, key string, value interface{}) error {
	ttl := c.ttl
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	if err := c.repo.Redis.Default.SetJSON(ctx, key, value, ttl); err != nil {
		c.logger.Sugar().Errorf("failed to set key(%s) in redis: %s", key, err.Error())
		return ErrInternal
	}
	return nil
}

func (c *cache) invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.repo.Redis.Default.Del(ctx, keys...).Err(); err != nil {
		c.logger.Sugar().Errorf("failed to delete keys(%v) from redis: %s", keys, err.Error())
	}
}
