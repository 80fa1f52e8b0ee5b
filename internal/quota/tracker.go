// Package quota decides whether an identity may convert and keeps count of
// what it used.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/conversions-ms-go/internal/logger"
	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
)

type Tracker struct {
	store port.UsageStore
	plans port.PlanRepository
	now   func() time.Time
}

// compile-time check: *Tracker must satisfy port.QuotaTracker
var _ port.QuotaTracker = (*Tracker)(nil)

func NewTracker(store port.UsageStore, plans port.PlanRepository) *Tracker {
	return &Tracker{store: store, plans: plans, now: time.Now}
}

// WithClock replaces the time source.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// planFor resolves the tier on every call so billing changes apply at once.
// A failing plan store degrades to the free tier.
func (t *Tracker) planFor(ctx context.Context, identity string) (model.PlanTier, model.PlanLimits) {
	tier, err := t.plans.PlanFor(ctx, identity)
	if err != nil {
		logger.Warnf(ctx, "⚠️  could not resolve plan, defaulting to free: %v", err)
		tier = model.PlanFree
	}
	if _, ok := model.ParsePlanTier(string(tier)); !ok {
		tier = model.PlanFree
	}
	return tier, model.LimitsFor(tier)
}

func (t *Tracker) CanConvert(ctx context.Context, identity string) (port.Admission, error) {
	tier, limits := t.planFor(ctx, identity)
	rec, err := t.store.Get(ctx, identity, tier, limits.MaxConversions, t.now())
	if err != nil {
		return port.Admission{}, fmt.Errorf("could not read usage of %q: %w", identity, err)
	}
	rem := remaining(limits, rec.Used)
	return port.Admission{
		Allowed:   limits.Unlimited() || rem > 0,
		Remaining: rem,
		Used:      rec.Used,
		Plan:      tier,
		Limits:    limits,
	}, nil
}

// IncrementUsage re-reads the plan limit and increments only below it, in
// one atomic store operation.
func (t *Tracker) IncrementUsage(ctx context.Context, identity string) (bool, error) {
	tier, limits := t.planFor(ctx, identity)
	_, ok, err := t.store.Reserve(ctx, identity, tier, limits.MaxConversions, t.now())
	if err != nil {
		return false, fmt.Errorf("could not increment usage of %q: %w", identity, err)
	}
	return ok, nil
}

func (t *Tracker) ReleaseUsage(ctx context.Context, identity string) error {
	if err := t.store.Release(ctx, identity); err != nil {
		return fmt.Errorf("could not release usage of %q: %w", identity, err)
	}
	return nil
}

func (t *Tracker) Snapshot(ctx context.Context, identity string) (model.UsageSnapshot, error) {
	tier, limits := t.planFor(ctx, identity)
	rec, err := t.store.Get(ctx, identity, tier, limits.MaxConversions, t.now())
	if err != nil {
		return model.UsageSnapshot{}, fmt.Errorf("could not read usage of %q: %w", identity, err)
	}
	snap := model.UsageSnapshot{
		Identity:  identity,
		Plan:      tier,
		Used:      rec.Used,
		Limit:     limits.MaxConversions,
		Remaining: remaining(limits, rec.Used),
		Limits:    limits,
	}
	if !limits.Unlimited() && !rec.PeriodStart.IsZero() {
		resets := rec.PeriodStart.Add(model.UsagePeriod)
		snap.ResetsAt = &resets
	}
	return snap, nil
}

func remaining(l model.PlanLimits, used int) int {
	if l.Unlimited() {
		return model.Unlimited
	}
	return max(0, l.MaxConversions-used)
}
