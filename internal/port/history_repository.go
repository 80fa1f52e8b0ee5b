package port

import (
	"context"

	"github.com/fhuszti/conversions-ms-go/internal/model"
)

// HistoryRepository persists conversion records.
type HistoryRepository interface {
	Create(ctx context.Context, rec *model.ConversionRecord) error
	ListByIdentity(ctx context.Context, identity string, limit int) ([]model.ConversionRecord, error)
}
