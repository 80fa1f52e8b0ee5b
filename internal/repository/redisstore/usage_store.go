package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
	"github.com/redis/go-redis/v9"
)

// KEYS[1] usage hash; ARGV: now ms, period ms, limit, plan, reserve flag.
// Returns {used, period_start ms, reserved}.
var usageScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local period = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local used = tonumber(redis.call('HGET', key, 'used') or '0')
local startRaw = redis.call('HGET', key, 'period_start')
if not startRaw or (limit >= 0 and now - tonumber(startRaw) >= period) then
  used = 0
  startRaw = ARGV[1]
end
local reserved = 0
if ARGV[5] == '1' and (limit < 0 or used < limit) then
  used = used + 1
  reserved = 1
end
redis.call('HSET', key, 'used', used, 'period_start', startRaw, 'plan', ARGV[4])
return {used, tonumber(startRaw), reserved}
`)

var releaseScript = redis.NewScript(`
local used = tonumber(redis.call('HGET', KEYS[1], 'used') or '0')
if used > 0 then
  return redis.call('HINCRBY', KEYS[1], 'used', -1)
end
return 0
`)

type UsageStore struct {
	client *redis.Client
}

// compile-time check: *UsageStore must satisfy port.UsageStore
var _ port.UsageStore = (*UsageStore)(nil)

func NewUsageStore(client *redis.Client) *UsageStore {
	return &UsageStore{client: client}
}

func (s *UsageStore) Get(ctx context.Context, identity string, plan model.PlanTier, limit int, now time.Time) (model.UsageRecord, error) {
	rec, _, err := s.run(ctx, identity, plan, limit, now, false)
	return rec, err
}

func (s *UsageStore) Reserve(ctx context.Context, identity string, plan model.PlanTier, limit int, now time.Time) (model.UsageRecord, bool, error) {
	return s.run(ctx, identity, plan, limit, now, true)
}

func (s *UsageStore) Release(ctx context.Context, identity string) error {
	if err := releaseScript.Run(ctx, s.client, []string{usageKey(identity)}).Err(); err != nil {
		return fmt.Errorf("redis release failed: %w", err)
	}
	return nil
}

func (s *UsageStore) run(ctx context.Context, identity string, plan model.PlanTier, limit int, now time.Time, reserve bool) (model.UsageRecord, bool, error) {
	flag := "0"
	if reserve {
		flag = "1"
	}
	vals, err := usageScript.Run(ctx, s.client, []string{usageKey(identity)},
		now.UnixMilli(), model.UsagePeriod.Milliseconds(), limit, string(plan), flag,
	).Int64Slice()
	if err != nil {
		return model.UsageRecord{}, false, fmt.Errorf("redis usage script failed: %w", err)
	}
	if len(vals) != 3 {
		return model.UsageRecord{}, false, fmt.Errorf("redis usage script returned %d values", len(vals))
	}
	return model.UsageRecord{
		Identity:    identity,
		Used:        int(vals[0]),
		PeriodStart: time.UnixMilli(vals[1]).UTC(),
		Plan:        plan,
	}, vals[2] == 1, nil
}

func usageKey(identity string) string {
	return "usage:" + identity
}
