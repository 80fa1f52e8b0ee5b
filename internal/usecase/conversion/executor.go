package conversion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fhuszti/conversions-ms-go/internal/encoding"
	"github.com/fhuszti/conversions-ms-go/internal/logger"
	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
	"github.com/fhuszti/conversions-ms-go/internal/transform"
	"github.com/fhuszti/conversions-ms-go/internal/workerpool"
)

type ExecutorConfig struct {
	Timeout      time.Duration
	TempDir      string
	MaxDimension int
}

type executorSrv struct {
	codec    port.ImageCodec
	pipeline *transform.Pipeline
	pool     *workerpool.Pool
	cfg      ExecutorConfig
}

func NewExecutor(codec port.ImageCodec, pipeline *transform.Pipeline, pool *workerpool.Pool, cfg ExecutorConfig) port.Executor {
	return &executorSrv{codec: codec, pipeline: pipeline, pool: pool, cfg: cfg}
}

// Execute runs the pixel pipeline and the encoder on a pool slot, bounded by
// the processing timeout. Failures come back both as a failure result and as
// the error that produced it.
func (e *executorSrv) Execute(ctx context.Context, req model.ConversionRequest, p encoding.Params) (model.ConversionResult, error) {
	if p.Passthrough {
		return e.passthrough(req, p)
	}
	if !e.codec.Supports(p.Codec()) {
		err := unsupported(p.Format.String(), "no encoder available")
		return failureResult(req.Filename, err), err
	}

	in, err := os.CreateTemp(e.cfg.TempDir, "conversion-in-*")
	if err != nil {
		perr := &ProcessingError{Cause: fmt.Errorf("create temp input: %w", err)}
		return failureResult(req.Filename, perr), perr
	}
	defer func() {
		if err := os.Remove(in.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warnf(ctx, "⚠️  failed to remove temp file %s: %v", in.Name(), err)
		}
	}()
	_, werr := in.Write(req.Data)
	cerr := in.Close()
	if werr != nil || cerr != nil {
		perr := &ProcessingError{Cause: fmt.Errorf("write temp input: %w", errors.Join(werr, cerr))}
		return failureResult(req.Filename, perr), perr
	}

	runCtx := ctx
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	var out []byte
	var bounds struct{ w, h int }
	err = e.pool.Run(runCtx, func(ctx context.Context) error {
		data, w, h, err := e.process(ctx, in.Name(), req, p)
		if err != nil {
			return err
		}
		out, bounds.w, bounds.h = data, w, h
		return nil
	})
	if err != nil {
		return e.fail(ctx, req, err)
	}

	meta := model.OutputMetadata{
		Width:            bounds.w,
		Height:           bounds.h,
		Size:             int64(len(out)),
		Format:           req.TargetFormat,
		CompressionRatio: model.CompressionRatio(req.Size(), int64(len(out))),
	}
	return model.NewSuccessResult(req.Filename, model.OutputFilename(req.Filename, req.TargetFormat), out, meta), nil
}

func (e *executorSrv) process(ctx context.Context, path string, req model.ConversionRequest, p encoding.Params) ([]byte, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("open temp input: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	probe, err := e.codec.Probe(f)
	if err != nil {
		return nil, 0, 0, unsupported("unknown", "file is not a supported image")
	}
	if e.cfg.MaxDimension > 0 && (probe.Width > e.cfg.MaxDimension || probe.Height > e.cfg.MaxDimension) {
		return nil, 0, 0, invalid(fmt.Sprintf("image dimensions %dx%d exceed the maximum of %d pixels", probe.Width, probe.Height, e.cfg.MaxDimension), map[string]string{"dimensions": "max"})
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, 0, 0, fmt.Errorf("rewind temp input: %w", err)
	}

	img, err := e.codec.Decode(f)
	if err != nil {
		return nil, 0, 0, err
	}
	img, err = e.pipeline.Apply(ctx, img, req.Options)
	if err != nil {
		return nil, 0, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, 0, err
	}

	outFile, err := os.CreateTemp(e.cfg.TempDir, "conversion-out-*"+req.TargetFormat.Extension())
	if err != nil {
		return nil, 0, 0, fmt.Errorf("create temp output: %w", err)
	}
	defer func() {
		_ = outFile.Close()
		if err := os.Remove(outFile.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warnf(ctx, "⚠️  failed to remove temp file %s: %v", outFile.Name(), err)
		}
	}()
	if err := e.codec.Encode(outFile, img, p); err != nil {
		return nil, 0, 0, err
	}
	if _, err := outFile.Seek(0, io.SeekStart); err != nil {
		return nil, 0, 0, fmt.Errorf("rewind temp output: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(outFile); err != nil {
		return nil, 0, 0, fmt.Errorf("read temp output: %w", err)
	}

	b := img.Bounds()
	return buf.Bytes(), b.Dx(), b.Dy(), nil
}

func (e *executorSrv) fail(ctx context.Context, req model.ConversionRequest, err error) (model.ConversionResult, error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return failureResult(req.Filename, verr), verr
	}
	perr := &ProcessingError{Cause: err}
	if errors.Is(err, context.DeadlineExceeded) {
		perr.Timeout = true
		logger.Warnf(ctx, "⚠️  conversion of %q to %s timed out after %s", req.Filename, req.TargetFormat, e.cfg.Timeout)
	} else {
		logger.Errorf(ctx, "❌  conversion of %q to %s failed: %v", req.Filename, req.TargetFormat, err)
	}
	return failureResult(req.Filename, perr), perr
}

func (e *executorSrv) passthrough(req model.ConversionRequest, p encoding.Params) (model.ConversionResult, error) {
	if req.SourceFormat != p.Format {
		err := unsupported(p.Format.String(), "only "+p.Format.String()+" input can be passed through")
		return failureResult(req.Filename, err), err
	}
	data := bytes.Clone(req.Data)
	meta := model.OutputMetadata{
		Size:   int64(len(data)),
		Format: req.TargetFormat,
	}
	return model.NewSuccessResult(req.Filename, model.OutputFilename(req.Filename, req.TargetFormat), data, meta), nil
}
