package conversion

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fhuszti/conversions-ms-go/internal/model"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrFileTooLarge      = errors.New("file too large")
	ErrQuotaExceeded     = errors.New("conversion quota exceeded")
	ErrBatchTooLarge     = errors.New("batch size exceeded")
	ErrPlanFeature       = errors.New("feature not included in plan")
	ErrRateLimited       = errors.New("rate limited")
	ErrProcessingTimeout = errors.New("image processing timed out")
	ErrProcessingFailed  = errors.New("image processing failed")
)

// Stable error codes returned to callers.
const (
	CodeValidation        = "validation_failed"
	CodeUnsupportedFormat = "unsupported_format"
	CodeFileTooLarge      = "file_too_large"
	CodeQuotaExceeded     = "quota_exceeded"
	CodeBatchTooLarge     = "batch_size_exceeded"
	CodePlanFeature       = "plan_feature_unavailable"
	CodeRateLimited       = "rate_limited"
	CodeProcessingTimeout = "processing_timeout"
	CodeProcessingFailed  = "processing_failed"
)

// CodeOf maps err to its caller-facing code, most specific first.
func CodeOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedFormat):
		return CodeUnsupportedFormat
	case errors.Is(err, ErrFileTooLarge):
		return CodeFileTooLarge
	case errors.Is(err, ErrBatchTooLarge):
		return CodeBatchTooLarge
	case errors.Is(err, ErrQuotaExceeded):
		return CodeQuotaExceeded
	case errors.Is(err, ErrPlanFeature):
		return CodePlanFeature
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrProcessingTimeout):
		return CodeProcessingTimeout
	default:
		return CodeProcessingFailed
	}
}

// ValidationError is a rejected request. Kind narrows it down to
// ErrUnsupportedFormat or ErrFileTooLarge when relevant.
type ValidationError struct {
	Kind   error
	Msg    string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Msg
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return e.Msg + " (" + strings.Join(parts, ", ") + ")"
}

func (e *ValidationError) Unwrap() []error {
	if e.Kind == nil || e.Kind == ErrValidation {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Kind}
}

func invalid(msg string, fields map[string]string) *ValidationError {
	return &ValidationError{Kind: ErrValidation, Msg: msg, Fields: fields}
}

func unsupported(format string, hint string) *ValidationError {
	msg := fmt.Sprintf("unsupported format %q", format)
	if hint != "" {
		msg += ": " + hint
	}
	return &ValidationError{Kind: ErrUnsupportedFormat, Msg: msg}
}

// AdmissionError is a refusal on plan grounds. It carries what a caller
// needs to render an upgrade prompt.
type AdmissionError struct {
	Reason    error
	Plan      model.PlanTier
	Remaining int
	Limit     int
}

func (e *AdmissionError) Error() string {
	switch {
	case errors.Is(e.Reason, ErrBatchTooLarge):
		return fmt.Sprintf("batch size exceeds the %s plan limit of %d files", e.Plan, e.Limit)
	case errors.Is(e.Reason, ErrFileTooLarge):
		return fmt.Sprintf("file exceeds the %s plan limit of %d MB", e.Plan, e.Limit)
	case errors.Is(e.Reason, ErrPlanFeature):
		return fmt.Sprintf("creative effects are not included in the %s plan", e.Plan)
	default:
		return fmt.Sprintf("conversion quota of the %s plan exhausted (%d remaining)", e.Plan, e.Remaining)
	}
}

func (e *AdmissionError) Unwrap() error { return e.Reason }

// ProcessingError hides the underlying cause from callers; Cause is for logs.
type ProcessingError struct {
	Timeout bool
	Cause   error
}

func (e *ProcessingError) Error() string {
	if e.Timeout {
		return ErrProcessingTimeout.Error()
	}
	return ErrProcessingFailed.Error()
}

func (e *ProcessingError) Unwrap() []error {
	kind := ErrProcessingFailed
	if e.Timeout {
		kind = ErrProcessingTimeout
	}
	if e.Cause == nil {
		return []error{kind}
	}
	return []error{kind, e.Cause}
}

// failureResult turns err into the result a caller sees.
func failureResult(originalFilename string, err error) model.ConversionResult {
	return model.NewFailureResult(originalFilename, CodeOf(err), err.Error())
}
