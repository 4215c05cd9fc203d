package repo

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

type Redis struct{ C *redis.Client }

func NewRedis(addr string) *Redis {
	return &Redis{C: redis.NewClient(&redis.Options{Addr: addr})}
}

func (r *Redis) Ping(ctx context.Context) error { return r.C.Ping(ctx).Err() }
func (r *Redis) Close() error                   { return r.C.Close() }

// allowScript increments the window counter and gives it a TTL in one step.
// A counter left without a TTL is repaired on the next hit.
var allowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// Allow counts a hit on key inside a fixed window and reports whether the
// count is still within limit.
func (r *Redis) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := allowScript.Run(ctx, r.C, []string{"rl:" + key}, window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return n <= int64(limit), nil
}

// GetBytes returns the cached value, or ok=false on a miss.
func (r *Redis) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.C.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *Redis) SetBytes(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.C.Set(ctx, key, val, ttl).Err()
}
