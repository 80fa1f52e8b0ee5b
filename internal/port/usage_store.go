package port

import (
	"context"
	"time"

	"github.com/fhuszti/conversions-ms-go/internal/model"
)

// UsageStore keeps per-identity conversion counters. Every method applies the
// period reset first: when limit is not model.Unlimited and now-PeriodStart
// has reached model.UsagePeriod, used drops to 0 and the period restarts at now.
type UsageStore interface {
	// Get returns the record, creating it lazily.
	Get(ctx context.Context, identity string, plan model.PlanTier, limit int, now time.Time) (model.UsageRecord, error)
	// Reserve increments used in the same atomic step as the limit check and
	// reports whether it did.
	Reserve(ctx context.Context, identity string, plan model.PlanTier, limit int, now time.Time) (model.UsageRecord, bool, error)
	// Release gives back one reserved conversion, never going below zero.
	Release(ctx context.Context, identity string) error
}

// RateStore keeps fixed request windows per origin.
type RateStore interface {
	// Hit counts one request against key and reports whether it is allowed.
	Hit(ctx context.Context, key string, ceiling int, window time.Duration, now time.Time) (bool, model.RateWindow, error)
}
