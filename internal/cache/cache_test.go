package cache

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertydash/server/config"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemory(time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "realtime:삼성동:all")
	assert.False(t, ok)

	c.Set(ctx, "realtime:삼성동:all", []byte(`{"query":"삼성동"}`))

	data, ok := c.Get(ctx, "realtime:삼성동:all")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"query":"삼성동"}`), data)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemory(20 * time.Millisecond)
	ctx := context.Background()

	c.Set(ctx, "key", []byte("value"))
	_, ok := c.Get(ctx, "key")
	require.True(t, ok)

	time.Sleep(40 * time.Millisecond)

	_, ok = c.Get(ctx, "key")
	assert.False(t, ok)
}

func TestMemoryCacheOverwrite(t *testing.T) {
	c := NewMemory(time.Minute)
	ctx := context.Background()

	c.Set(ctx, "key", []byte("old"))
	c.Set(ctx, "key", []byte("new"))

	data, ok := c.Get(ctx, "key")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), data)
}

func TestNewPicksMemoryWithoutRedisAddr(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.TTL = 300

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	_, ok := New(cfg, logger).(*memoryCache)
	assert.True(t, ok)
}

func TestNewPicksRedisWithAddr(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.RedisAddr = "localhost:6379"
	cfg.Cache.TTL = 300

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	_, ok := New(cfg, logger).(*redisCache)
	assert.True(t, ok)
}
