package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type view struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// testClient connects to TEST_REDIS_ADDR or skips the test.
func testClient(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	c, err := NewClient(context.Background(), addr, os.Getenv("TEST_REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c.Client
}

func testCache(t *testing.T) *ViewCache[view] {
	client := testClient(t)
	prefix := fmt.Sprintf("test:%s:%d:", t.Name(), time.Now().UnixNano())
	return NewViewCache[view](client, prefix, time.Minute)
}

func TestDisabledCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	for name, c := range map[string]*ViewCache[view]{
		"nil cache":  nil,
		"nil client": NewViewCache[view](nil, "x:", time.Minute),
	} {
		t.Run(name, func(t *testing.T) {
			c.Set(ctx, "1", &view{ID: "1"}, 1)
			c.Delete(ctx, "1")
			_, ok := c.Get(ctx, "1")
			assert.False(t, ok)
		})
	}
}

func TestVersion(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 1500, time.UTC)
	assert.Equal(t, at.Truncate(time.Microsecond).UnixMicro(), Version(at))
	assert.Less(t, Version(time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC)), removedVersion)
}

func TestViewCacheKeepsNewestVersion(t *testing.T) {
	ctx := context.Background()
	c := testCache(t)

	c.Set(ctx, "1", &view{ID: "1", Name: "second"}, 20)
	c.Set(ctx, "1", &view{ID: "1", Name: "first"}, 10)
	c.Set(ctx, "1", &view{ID: "1", Name: "again"}, 20)

	got, ok := c.Get(ctx, "1")
	require.True(t, ok)
	assert.Equal(t, "second", got.Name)

	c.Set(ctx, "1", &view{ID: "1", Name: "third"}, 30)
	got, ok = c.Get(ctx, "1")
	require.True(t, ok)
	assert.Equal(t, "third", got.Name)
}

// A reader that loaded the row before it was removed must not bring it back.
func TestViewCacheDeleteRejectsLateSet(t *testing.T) {
	ctx := context.Background()
	c := testCache(t)

	c.Set(ctx, "1", &view{ID: "1"}, 10)
	c.Delete(ctx, "1", "2")
	_, ok := c.Get(ctx, "1")
	assert.False(t, ok)

	c.Set(ctx, "1", &view{ID: "1"}, 10)
	c.Set(ctx, "2", &view{ID: "2"}, Version(time.Now()))
	_, ok = c.Get(ctx, "1")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "2")
	assert.False(t, ok)
}

func TestViewCacheExpires(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	prefix := fmt.Sprintf("test:%s:%d:", t.Name(), time.Now().UnixNano())
	c := NewViewCache[view](client, prefix, time.Minute)

	c.Set(ctx, "1", &view{ID: "1"}, 1)
	ttl, err := client.PTTL(ctx, prefix+"1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}
