package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// removedVersion outranks every real version. It is 2^53-1 so the Lua side
// compares it exactly.
const removedVersion int64 = 1<<53 - 1

// setIfNewer writes the view only when its version is above the stored one.
// KEYS[1] view key; ARGV[1] version, ARGV[2] payload, ARGV[3] ttl in ms.
var setIfNewer = goredis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'v')
if cur and tonumber(cur) >= tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'v', ARGV[1], 'd', ARGV[2])
if tonumber(ARGV[3]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
end
return 1
`)

// ViewCache is a JSON-backed Redis cache for read projections of type T.
//
// Every entry carries the version of the row it was built from, usually its
// updated_at. A write with a version not above the cached one is dropped, so
// a reader that loaded a row before a later commit cannot overwrite the newer
// view. Delete leaves a marker that rejects any later write for the id.
//
// Reads never fail: any miss or decode problem is reported as a miss, and
// write failures are logged because the database stays the source of truth.
// A nil client disables the cache.
type ViewCache[T any] struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewViewCache binds a cache to a key prefix. A ttl of 0 keeps keys forever.
func NewViewCache[T any](client *goredis.Client, prefix string, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, prefix: prefix, ttl: ttl}
}

// Version turns a row timestamp into a cache version.
func Version(t time.Time) int64 {
	return t.UnixMicro()
}

func (c *ViewCache[T]) enabled() bool {
	return c != nil && c.client != nil
}

func (c *ViewCache[T]) Get(ctx context.Context, id string) (*T, bool) {
	if !c.enabled() {
		return nil, false
	}
	data, err := c.client.HGet(ctx, c.prefix+id, "d").Bytes()
	if err != nil || len(data) == 0 {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// Set stores value unless the cache already holds version or a newer one.
func (c *ViewCache[T]) Set(ctx context.Context, id string, value *T, version int64) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		slog.WarnContext(ctx, "view cache marshal failed", "key", c.prefix+id, "error", err)
		return
	}
	c.write(ctx, id, version, data)
}

// Delete marks ids as removed. Views for them are no longer served and later
// Sets are ignored until the marker expires.
func (c *ViewCache[T]) Delete(ctx context.Context, ids ...string) {
	if !c.enabled() {
		return
	}
	for _, id := range ids {
		c.write(ctx, id, removedVersion, nil)
	}
}

func (c *ViewCache[T]) write(ctx context.Context, id string, version int64, data []byte) {
	key := c.prefix + id
	args := []any{strconv.FormatInt(version, 10), data, c.ttl.Milliseconds()}
	if err := setIfNewer.Run(ctx, c.client, []string{key}, args...).Err(); err != nil {
		slog.WarnContext(ctx, "view cache write failed", "key", key, "error", err)
	}
}
