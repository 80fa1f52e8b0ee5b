package port

import (
	"context"

	"github.com/fhuszti/conversions-ms-go/internal/model"
)

// UploadedFile is one file as received from the caller.
type UploadedFile struct {
	Name string
	Data []byte
	// Size is the declared size of a file left unread; zero means len(Data).
	Size int64
}

func (f UploadedFile) Bytes() int64 {
	if f.Size > 0 {
		return f.Size
	}
	return int64(len(f.Data))
}

// RawOptions are option fields exactly as submitted (form values).
type RawOptions map[string]string

// Converter runs a single conversion end to end.
type Converter interface {
	Convert(ctx context.Context, in ConvertInput) (ConvertOutput, error)
}
type ConvertInput struct {
	Identity     string
	File         UploadedFile
	SourceFormat string
	TargetFormat string
	Options      RawOptions
}
type ConvertOutput struct {
	Result model.ConversionResult
	Usage  model.UsageSnapshot
}

// BatchConverter runs several files through one admission check.
type BatchConverter interface {
	ConvertBatch(ctx context.Context, in BatchConvertInput) (BatchConvertOutput, error)
}
type BatchConvertInput struct {
	Identity     string
	Files        []UploadedFile
	TargetFormat string
	Quality      string
}
type BatchConvertOutput struct {
	Outcome model.BatchOutcome  `json:"outcome"`
	Usage   model.UsageSnapshot `json:"usage"`
}

// UsageReader exposes the caller's quota.
type UsageReader interface {
	Usage(ctx context.Context, identity string) (model.UsageSnapshot, error)
}

// HistoryLister lists past conversions of an identity.
type HistoryLister interface {
	ListHistory(ctx context.Context, identity string, limit int) ([]model.ConversionRecord, error)
}
