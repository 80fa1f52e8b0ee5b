package conversion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/fhuszti/conversions-ms-go/internal/logger"
	"github.com/fhuszti/conversions-ms-go/internal/metrics"
	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
	"github.com/fhuszti/conversions-ms-go/internal/uuid"
)

// Deps are the collaborators shared by the single and batch use cases.
// Results may be nil, in which case outputs are not archived.
type Deps struct {
	Validator  *Validator
	Executor   port.Executor
	Quota      port.QuotaTracker
	Dispatcher port.TaskDispatcher
	Results    port.ResultStore
	URLExpiry  time.Duration
	NewID      uuid.Generator
	Now        func() time.Time
}

type base struct {
	Deps
}

func newBase(d Deps) base {
	if d.NewID == nil {
		d.NewID = uuid.NewUUID
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.URLExpiry <= 0 {
		d.URLExpiry = time.Hour
	}
	return base{d}
}

// archive uploads a successful output and attaches its download link.
// Archiving is best effort: the conversion result stands on its own.
func (b base) archive(ctx context.Context, identity string, res model.ConversionResult) model.ConversionResult {
	if b.Results == nil || !res.Success || res.Metadata == nil {
		return res
	}
	key := fmt.Sprintf("%s/%s/%s", url.PathEscape(identity), b.NewID(), res.Filename)
	if err := b.Results.SaveFile(ctx, key, bytes.NewReader(res.Data), int64(len(res.Data)), res.Metadata.Format.MimeType()); err != nil {
		logger.Warnf(ctx, "⚠️  could not archive %q: %v", res.Filename, err)
		return res
	}
	link, err := b.Results.GeneratePresignedDownloadURL(ctx, key, b.URLExpiry)
	if err != nil {
		logger.Warnf(ctx, "⚠️  could not sign download link for %q: %v", key, err)
		return res
	}
	return res.WithDownloadURL(link)
}

// record hands the outcome of an executed conversion to the history writer.
func (b base) record(ctx context.Context, identity string, req model.ConversionRequest, res model.ConversionResult) {
	if b.Dispatcher == nil {
		return
	}
	rec := model.ConversionRecord{
		ID:               b.NewID(),
		Identity:         identity,
		OriginalFilename: req.Filename,
		SourceFormat:     req.SourceFormat,
		TargetFormat:     req.TargetFormat,
		OriginalSize:     req.Size(),
		Success:          res.Success,
		Metadata:         res.Metadata,
		CreatedAt:        b.Now().UTC(),
	}
	if res.Metadata != nil {
		rec.OutputSize = res.Metadata.Size
	}
	if !res.Success {
		code := res.Code
		rec.ErrorCode = &code
	}
	if err := b.Dispatcher.EnqueueRecordConversion(ctx, rec); err != nil {
		logger.Warnf(ctx, "⚠️  could not enqueue history record for %q: %v", req.Filename, err)
	}
}

// usage returns the caller's snapshot; a failure only costs the response its usage block.
func (b base) usage(ctx context.Context, identity string) model.UsageSnapshot {
	snap, err := b.Quota.Snapshot(ctx, identity)
	if err != nil {
		logger.Warnf(ctx, "⚠️  could not read usage of %s: %v", identity, err)
		return model.UsageSnapshot{Identity: identity}
	}
	return snap
}

func (b base) release(ctx context.Context, identity string) {
	if err := b.Quota.ReleaseUsage(ctx, identity); err != nil {
		logger.Errorf(ctx, "❌  could not release reserved conversion of %s: %v", identity, err)
	}
}

func observe(target model.Format, err error, elapsed time.Duration) {
	format := target.String()
	if format == "" {
		format = "unknown"
	}
	status := "success"
	if err != nil {
		status = CodeOf(err)
		var aerr *AdmissionError
		if errors.As(err, &aerr) {
			metrics.AdmissionDeniedTotal.WithLabelValues(status).Inc()
		}
	}
	metrics.ConversionsTotal.WithLabelValues(format, status).Inc()
	if elapsed > 0 {
		metrics.ConversionDuration.WithLabelValues(format).Observe(elapsed.Seconds())
	}
}
