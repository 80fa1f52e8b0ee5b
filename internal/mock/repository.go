package mock

import (
	"context"

	"github.com/fhuszti/conversions-ms-go/internal/model"
)

// MockHistoryRepo implements port.HistoryRepository for tests.
type MockHistoryRepo struct {
	ListOut []model.ConversionRecord

	CreateErr error
	ListErr   error

	Created      []*model.ConversionRecord
	ListCalled   bool
	ListIdentity string
	ListLimit    int
}

func (m *MockHistoryRepo) Create(ctx context.Context, rec *model.ConversionRecord) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = append(m.Created, rec)
	return nil
}

func (m *MockHistoryRepo) ListByIdentity(ctx context.Context, identity string, limit int) ([]model.ConversionRecord, error) {
	m.ListCalled = true
	m.ListIdentity = identity
	m.ListLimit = limit
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ListOut, nil
}

// MockPlanRepo implements port.PlanRepository for tests.
type MockPlanRepo struct {
	Plans map[string]model.PlanTier
	Err   error
}

func (m *MockPlanRepo) PlanFor(ctx context.Context, identity string) (model.PlanTier, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if p, ok := m.Plans[identity]; ok {
		return p, nil
	}
	return model.PlanFree, nil
}
