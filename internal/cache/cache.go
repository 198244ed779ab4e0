// Package cache holds recent aggregate responses so repeated searches for
// the same neighborhood skip the upstream fan-out. Redis backs the cache in
// deployments that share it; otherwise a process-local TTL map serves.
package cache

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"propertydash/server/config"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// New picks the backend from configuration.
func New(cfg *config.Config, logger *logrus.Logger) Cache {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	ttl := time.Duration(cfg.Cache.TTL) * time.Second
	if cfg.Cache.RedisAddr != "" {
		logger.WithField("addr", cfg.Cache.RedisAddr).Info("Using redis response cache")
		return &redisCache{
			client: redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr}),
			ttl:    ttl,
			logger: logger,
		}
	}
	return NewMemory(ttl)
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		// A broken cache degrades to a miss, never to a failed search.
		c.logger.WithError(err).Warn("Cache get failed")
		return nil, false
	}
	return data, true
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("Cache set failed")
	}
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

type memoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

// NewMemory builds the process-local backend.
func NewMemory(ttl time.Duration) Cache {
	return &memoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.data, true
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte) {
	c.mu.Lock()
	c.entries[key] = memoryEntry{data: value, expires: time.Now().Add(c.ttl)}
	// Drop whatever already expired while we hold the lock.
	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}
