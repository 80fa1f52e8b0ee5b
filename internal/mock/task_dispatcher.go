package mock

import (
	"context"

	"github.com/fhuszti/conversions-ms-go/internal/model"
)

// MockDispatcher implements task dispatching for tests.
type MockDispatcher struct {
	RecordCalled bool
	Records      []model.ConversionRecord
	RecordErr    error
}

func (m *MockDispatcher) EnqueueRecordConversion(ctx context.Context, rec model.ConversionRecord) error {
	m.RecordCalled = true
	m.Records = append(m.Records, rec)
	return m.RecordErr
}
