package quota

import (
	"context"

	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
)

// StaticPlans serves a fixed identity -> tier table; unknown identities are free.
type StaticPlans map[string]model.PlanTier

var _ port.PlanRepository = StaticPlans(nil)

func (s StaticPlans) PlanFor(_ context.Context, identity string) (model.PlanTier, error) {
	if t, ok := s[identity]; ok {
		return t, nil
	}
	return model.PlanFree, nil
}
