package worker

import (
	"context"
	"fmt"

	"github.com/fhuszti/conversions-ms-go/internal/logger"
	"github.com/fhuszti/conversions-ms-go/internal/port"
	"github.com/fhuszti/conversions-ms-go/internal/task"
)

// RecordConversionHandler handles a record-conversion task by writing the
// carried history row.
func RecordConversionHandler(ctx context.Context, p task.RecordConversionPayload, repo port.HistoryRepository) error {
	rec := p.Record
	if rec.Identity == "" {
		err := fmt.Errorf("conversion #%s has no identity", rec.ID)
		logger.Errorf(ctx, "❌  Invalid history record: %v", err)
		return err
	}

	if err := repo.Create(ctx, &rec); err != nil {
		logger.Errorf(ctx, "❌  Failed to record conversion #%s: %v", rec.ID, err)
		return err
	}

	logger.Infof(ctx, "✅  Successfully recorded conversion #%s", rec.ID)
	return nil
}
