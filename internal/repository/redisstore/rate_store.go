package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
	"github.com/redis/go-redis/v9"
)

// KEYS[1] window hash; ARGV: now ms, window ms, ceiling.
// Returns {allowed, count, reset_at ms}. A denied hit does not count.
var rateScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local ceiling = tonumber(ARGV[3])
local count = tonumber(redis.call('HGET', key, 'count') or '0')
local started = redis.call('HGET', key, 'started_at')
if count == 0 or not started or now > tonumber(started) + window then
  redis.call('HSET', key, 'count', 1, 'started_at', ARGV[1])
  redis.call('PEXPIRE', key, window + 1000)
  return {1, 1, now + window}
end
local reset = tonumber(started) + window
if count < ceiling then
  count = redis.call('HINCRBY', key, 'count', 1)
  return {1, count, reset}
end
return {0, count, reset}
`)

type RateStore struct {
	client *redis.Client
}

var _ port.RateStore = (*RateStore)(nil)

func NewRateStore(client *redis.Client) *RateStore {
	return &RateStore{client: client}
}

func (s *RateStore) Hit(ctx context.Context, key string, ceiling int, window time.Duration, now time.Time) (bool, model.RateWindow, error) {
	vals, err := rateScript.Run(ctx, s.client, []string{"ratelimit:" + key},
		now.UnixMilli(), window.Milliseconds(), ceiling,
	).Int64Slice()
	if err != nil {
		return false, model.RateWindow{}, fmt.Errorf("redis rate script failed: %w", err)
	}
	if len(vals) != 3 {
		return false, model.RateWindow{}, fmt.Errorf("redis rate script returned %d values", len(vals))
	}
	return vals[0] == 1, model.RateWindow{
		Count:   int(vals[1]),
		ResetAt: time.UnixMilli(vals[2]).UTC(),
	}, nil
}
