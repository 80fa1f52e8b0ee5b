package port

import (
	"context"

	"github.com/fhuszti/conversions-ms-go/internal/model"
)

// TaskDispatcher enqueues background jobs.
type TaskDispatcher interface {
	EnqueueRecordConversion(ctx context.Context, rec model.ConversionRecord) error
}
