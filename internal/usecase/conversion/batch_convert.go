package conversion

import (
	"context"
	"fmt"

	"github.com/fhuszti/conversions-ms-go/internal/encoding"
	"github.com/fhuszti/conversions-ms-go/internal/metrics"
	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
)

type batchSrv struct {
	base
}

func NewBatchConverter(d Deps) port.BatchConverter {
	return &batchSrv{newBase(d)}
}

// ConvertBatch checks batch size and remaining quota once for the whole
// batch, then converts files one after the other. One file failing never
// stops the others; each success is committed to the quota as it lands.
func (s *batchSrv) ConvertBatch(ctx context.Context, in port.BatchConvertInput) (port.BatchConvertOutput, error) {
	if len(in.Files) == 0 {
		return port.BatchConvertOutput{}, invalid("at least one file is required", map[string]string{"files": "required"})
	}
	target, err := s.Validator.ParseTarget(in.TargetFormat)
	if err != nil {
		return port.BatchConvertOutput{}, err
	}
	opts, err := s.Validator.ParseOptions(port.RawOptions{"quality": in.Quality})
	if err != nil {
		return port.BatchConvertOutput{}, err
	}
	params, err := encoding.Resolve(target, opts)
	if err != nil {
		return port.BatchConvertOutput{}, unsupported(target.String(), "")
	}

	adm, err := s.Quota.CanConvert(ctx, in.Identity)
	if err != nil {
		return port.BatchConvertOutput{}, err
	}
	metrics.BatchSize.Observe(float64(len(in.Files)))

	if len(in.Files) > adm.Limits.MaxBatchSize {
		err := &AdmissionError{Reason: ErrBatchTooLarge, Plan: adm.Plan, Remaining: adm.Remaining, Limit: adm.Limits.MaxBatchSize}
		observe(target, err, 0)
		return port.BatchConvertOutput{Usage: s.usage(ctx, in.Identity)}, err
	}
	if !adm.Limits.Unlimited() && len(in.Files) > adm.Remaining {
		err := quotaDenied(adm)
		observe(target, err, 0)
		return port.BatchConvertOutput{Usage: s.usage(ctx, in.Identity)}, err
	}

	outcome := model.BatchOutcome{
		ID:      s.NewID().String(),
		Results: make([]model.ConversionResult, 0, len(in.Files)),
	}
	start := s.Now()
	for _, f := range in.Files {
		outcome.Add(s.convertOne(ctx, in.Identity, f, target, opts, params, adm))
	}
	outcome.Finish(s.Now().Sub(start))

	return port.BatchConvertOutput{Outcome: outcome, Usage: s.usage(ctx, in.Identity)}, nil
}

func (s *batchSrv) convertOne(
	ctx context.Context,
	identity string,
	f port.UploadedFile,
	target model.Format,
	opts model.ImageOptions,
	params encoding.Params,
	adm port.Admission,
) model.ConversionResult {
	if err := ctx.Err(); err != nil {
		perr := &ProcessingError{Cause: fmt.Errorf("batch aborted: %w", err)}
		observe(target, perr, 0)
		return failureResult(f.Name, perr)
	}
	if f.Bytes() > adm.Limits.MaxFileSizeBytes() {
		err := &AdmissionError{Reason: ErrFileTooLarge, Plan: adm.Plan, Limit: adm.Limits.MaxFileSizeMB}
		observe(target, err, 0)
		return failureResult(f.Name, err)
	}
	src, err := s.Validator.ValidateSource(f.Data, "", target)
	if err != nil {
		observe(target, err, 0)
		return failureResult(f.Name, err)
	}

	req := model.ConversionRequest{
		Data:         f.Data,
		Filename:     f.Name,
		SourceFormat: src.Format,
		TargetFormat: target,
		Options:      opts,
	}
	start := s.Now()
	res, err := s.Executor.Execute(ctx, req, params)
	elapsed := s.Now().Sub(start)
	if err != nil {
		s.record(ctx, identity, req, res)
		observe(target, err, elapsed)
		return res
	}

	ok, err := s.Quota.IncrementUsage(ctx, identity)
	if err != nil {
		perr := &ProcessingError{Cause: fmt.Errorf("commit usage: %w", err)}
		res = failureResult(f.Name, perr)
		s.record(ctx, identity, req, res)
		observe(target, perr, elapsed)
		return res
	}
	if !ok {
		denied := adm
		denied.Remaining = 0
		qerr := quotaDenied(denied)
		res = failureResult(f.Name, qerr)
		observe(target, qerr, elapsed)
		return res
	}

	res = s.archive(ctx, identity, res)
	s.record(ctx, identity, req, res)
	observe(target, nil, elapsed)
	return res
}
