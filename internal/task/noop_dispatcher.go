package task

import (
	"context"

	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
)

type NoopDispatcher struct{}

var _ port.TaskDispatcher = (*NoopDispatcher)(nil)

func NewNoopDispatcher() *NoopDispatcher { return &NoopDispatcher{} }

func (d *NoopDispatcher) EnqueueRecordConversion(ctx context.Context, rec model.ConversionRecord) error {
	return nil
}

// InlineDispatcher writes history synchronously. It serves setups with a
// database but no Redis, where no worker is running.
type InlineDispatcher struct {
	repo port.HistoryRepository
}

var _ port.TaskDispatcher = (*InlineDispatcher)(nil)

func NewInlineDispatcher(repo port.HistoryRepository) *InlineDispatcher {
	return &InlineDispatcher{repo: repo}
}

func (d *InlineDispatcher) EnqueueRecordConversion(ctx context.Context, rec model.ConversionRecord) error {
	return d.repo.Create(ctx, &rec)
}
