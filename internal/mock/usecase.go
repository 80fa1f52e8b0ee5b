package mock

import (
	"context"

	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
)

// MockConverter implements port.Converter for tests.
type MockConverter struct {
	Out    port.ConvertOutput
	Err    error
	Called bool
	In     port.ConvertInput
}

func (m *MockConverter) Convert(ctx context.Context, in port.ConvertInput) (port.ConvertOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// MockBatchConverter implements port.BatchConverter for tests.
type MockBatchConverter struct {
	Out    port.BatchConvertOutput
	Err    error
	Called bool
	In     port.BatchConvertInput
}

func (m *MockBatchConverter) ConvertBatch(ctx context.Context, in port.BatchConvertInput) (port.BatchConvertOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// MockUsageReader implements port.UsageReader for tests.
type MockUsageReader struct {
	Out      model.UsageSnapshot
	Err      error
	Identity string
}

func (m *MockUsageReader) Usage(ctx context.Context, identity string) (model.UsageSnapshot, error) {
	m.Identity = identity
	return m.Out, m.Err
}

// MockHistoryLister implements port.HistoryLister for tests.
type MockHistoryLister struct {
	Out      []model.ConversionRecord
	Err      error
	Identity string
	Limit    int
}

func (m *MockHistoryLister) ListHistory(ctx context.Context, identity string, limit int) ([]model.ConversionRecord, error) {
	m.Identity = identity
	m.Limit = limit
	return m.Out, m.Err
}
