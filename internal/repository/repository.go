package repository

import (
	"github.com/BloggingApp/blog-service/internal/repository/redisrepo"
	"github.com/BloggingApp/blog-service/internal/repository/store"
)

type Repository struct {
	Store *store.Store
	Redis *redisrepo.RedisRepository
}

func New(st *store.Store, redis *redisrepo.RedisRepository) *Repository {
	return &Repository{
		Store: st,
		Redis: redis,
	}
}
