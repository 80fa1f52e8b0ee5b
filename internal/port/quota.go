package port

import (
	"context"

	"github.com/fhuszti/conversions-ms-go/internal/model"
)

// Admission is the answer of a quota check.
type Admission struct {
	Allowed   bool
	Remaining int
	Used      int
	Plan      model.PlanTier
	Limits    model.PlanLimits
}

// QuotaTracker gates conversions per identity.
type QuotaTracker interface {
	CanConvert(ctx context.Context, identity string) (Admission, error)
	IncrementUsage(ctx context.Context, identity string) (bool, error)
	ReleaseUsage(ctx context.Context, identity string) error
	Snapshot(ctx context.Context, identity string) (model.UsageSnapshot, error)
}
