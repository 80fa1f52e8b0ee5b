package port

import (
	"context"

	"github.com/fhuszti/conversions-ms-go/internal/encoding"
	"github.com/fhuszti/conversions-ms-go/internal/model"
)

// Executor turns one validated request into encoded bytes.
type Executor interface {
	Execute(ctx context.Context, req model.ConversionRequest, p encoding.Params) (model.ConversionResult, error)
}
