package mock

import (
	"context"

	"github.com/fhuszti/conversions-ms-go/internal/encoding"
	"github.com/fhuszti/conversions-ms-go/internal/model"
)

// MockExecutor returns canned results. FailFor lists filenames that fail with Err.
type MockExecutor struct {
	Out     []byte
	Err     error
	FailFor map[string]bool

	Requests []model.ConversionRequest
	Params   []encoding.Params
}

func (m *MockExecutor) Execute(ctx context.Context, req model.ConversionRequest, p encoding.Params) (model.ConversionResult, error) {
	m.Requests = append(m.Requests, req)
	m.Params = append(m.Params, p)
	if m.Err != nil && (m.FailFor == nil || m.FailFor[req.Filename]) {
		return model.NewFailureResult(req.Filename, "processing_failed", m.Err.Error()), m.Err
	}
	out := m.Out
	if out == nil {
		out = []byte("converted")
	}
	meta := model.OutputMetadata{
		Width:            1,
		Height:           1,
		Size:             int64(len(out)),
		Format:           req.TargetFormat,
		CompressionRatio: model.CompressionRatio(req.Size(), int64(len(out))),
	}
	return model.NewSuccessResult(req.Filename, model.OutputFilename(req.Filename, req.TargetFormat), out, meta), nil
}
