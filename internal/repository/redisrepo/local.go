package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type localEntry struct {
	value     string
	expiresAt time.Time
}

// localSweepInterval bounds how often Set scans for expired entries.
const localSweepInterval = time.Minute

type localRepo struct {
	mu        sync.Mutex
	entries   map[string]localEntry
	lastSweep time.Time
	now       func() time.Time
}

func newLocalRepo() Default {
	return &localRepo{
		entries: make(map[string]localEntry),
		now:     time.Now,
	}
}

func (e localEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// sweep drops expired entries that are never read again. Callers hold r.mu.
func (r *localRepo) sweep(now time.Time) {
	if now.Sub(r.lastSweep) < localSweepInterval {
		return
	}
	r.lastSweep = now

	for key, entry := range r.entries {
		if entry.expired(now) {
			delete(r.entries, key)
		}
	}
}

func (r *localRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprint(v)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	entry := localEntry{value: s}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}
	r.entries[key] = entry
	return nil
}

func (r *localRepo) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return r.Set(ctx, key, valueJSON, ttl)
}

func (r *localRepo) Get(ctx context.Context, key string) *redis.StringCmd {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[key]
	if ok && entry.expired(r.now()) {
		delete(r.entries, key)
		ok = false
	}
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(entry.value, nil)
}

func (r *localRepo) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for _, key := range keys {
		if _, ok := r.entries[key]; ok {
			delete(r.entries, key)
			deleted++
		}
	}
	return redis.NewIntResult(deleted, nil)
}
