package port

import (
	"context"

	"github.com/fhuszti/conversions-ms-go/internal/model"
)

// PlanRepository resolves an identity's subscription tier. Billing updates
// happen elsewhere; implementations must not cache across calls.
type PlanRepository interface {
	PlanFor(ctx context.Context, identity string) (model.PlanTier, error)
}
