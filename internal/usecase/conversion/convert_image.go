package conversion

import (
	"context"
	"time"

	"github.com/fhuszti/conversions-ms-go/internal/encoding"
	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
)

type converterSrv struct {
	base
}

func NewConverter(d Deps) port.Converter {
	return &converterSrv{newBase(d)}
}

// Convert admits, validates, reserves quota, executes and commits one
// conversion. A preview is admitted against the quota but never consumes it.
func (s *converterSrv) Convert(ctx context.Context, in port.ConvertInput) (port.ConvertOutput, error) {
	name := in.File.Name

	adm, err := s.Quota.CanConvert(ctx, in.Identity)
	if err != nil {
		return port.ConvertOutput{}, err
	}
	if !adm.Allowed {
		return s.reject(ctx, in, "", quotaDenied(adm))
	}

	target, err := s.Validator.ParseTarget(in.TargetFormat)
	if err != nil {
		return s.reject(ctx, in, "", err)
	}
	opts, err := s.Validator.ParseOptions(in.Options)
	if err != nil {
		return s.reject(ctx, in, target, err)
	}
	if opts.Filter != "" && !adm.Limits.CreativeEffects {
		return s.reject(ctx, in, target, &AdmissionError{
			Reason:    ErrPlanFeature,
			Plan:      adm.Plan,
			Remaining: adm.Remaining,
		})
	}
	if size := int64(len(in.File.Data)); size > adm.Limits.MaxFileSizeBytes() {
		return s.reject(ctx, in, target, &AdmissionError{
			Reason: ErrFileTooLarge,
			Plan:   adm.Plan,
			Limit:  adm.Limits.MaxFileSizeMB,
		})
	}
	src, err := s.Validator.ValidateSource(in.File.Data, in.SourceFormat, target)
	if err != nil {
		return s.reject(ctx, in, target, err)
	}
	params, err := encoding.Resolve(target, opts)
	if err != nil {
		return s.reject(ctx, in, target, unsupported(target.String(), ""))
	}

	reserved := false
	if !opts.Preview {
		ok, err := s.Quota.IncrementUsage(ctx, in.Identity)
		if err != nil {
			return port.ConvertOutput{}, err
		}
		if !ok {
			adm.Allowed, adm.Remaining = false, 0
			return s.reject(ctx, in, target, quotaDenied(adm))
		}
		reserved = true
	}

	req := model.ConversionRequest{
		Data:         in.File.Data,
		Filename:     name,
		SourceFormat: src.Format,
		TargetFormat: target,
		Options:      opts,
	}
	start := s.Now()
	res, execErr := s.Executor.Execute(ctx, req, params)
	elapsed := s.Now().Sub(start)
	if execErr != nil {
		if reserved {
			s.release(ctx, in.Identity)
		}
		s.record(ctx, in.Identity, req, res)
		observe(target, execErr, elapsed)
		return port.ConvertOutput{Result: res, Usage: s.usage(ctx, in.Identity)}, execErr
	}

	if !opts.Preview {
		res = s.archive(ctx, in.Identity, res)
	}
	s.record(ctx, in.Identity, req, res)
	observe(target, nil, elapsed)
	return port.ConvertOutput{Result: res, Usage: s.usage(ctx, in.Identity)}, nil
}

func (s *converterSrv) reject(ctx context.Context, in port.ConvertInput, target model.Format, err error) (port.ConvertOutput, error) {
	observe(target, err, time.Duration(0))
	return port.ConvertOutput{
		Result: failureResult(in.File.Name, err),
		Usage:  s.usage(ctx, in.Identity),
	}, err
}

func quotaDenied(adm port.Admission) *AdmissionError {
	return &AdmissionError{
		Reason:    ErrQuotaExceeded,
		Plan:      adm.Plan,
		Remaining: adm.Remaining,
		Limit:     adm.Limits.MaxConversions,
	}
}
