package conversion

import (
	"context"

	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
)

type usageSrv struct {
	quota port.QuotaTracker
}

func NewUsageReader(quota port.QuotaTracker) port.UsageReader {
	return &usageSrv{quota}
}

func (s *usageSrv) Usage(ctx context.Context, identity string) (model.UsageSnapshot, error) {
	return s.quota.Snapshot(ctx, identity)
}
