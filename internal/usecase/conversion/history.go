package conversion

import (
	"context"

	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type historySrv struct {
	repo port.HistoryRepository
}

func NewHistoryLister(repo port.HistoryRepository) port.HistoryLister {
	return &historySrv{repo}
}

// ListHistory returns the newest records first. limit is clamped to [1, MaxHistoryLimit].
func (s *historySrv) ListHistory(ctx context.Context, identity string, limit int) ([]model.ConversionRecord, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	recs, err := s.repo.ListByIdentity(ctx, identity, limit)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []model.ConversionRecord{}
	}
	return recs, nil
}
