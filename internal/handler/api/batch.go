package api

import (
	"net/http"

	"github.com/fhuszti/conversions-ms-go/internal/logger"
	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
	"github.com/fhuszti/conversions-ms-go/internal/usecase/conversion"
)

// BatchConvertHandler resolves the caller's plan before touching the body:
// the body cap is MaxBatchSize files at the plan's file ceiling (never above
// maxFileBytes), and an over-sized batch is refused before any file is read.
func BatchConvertHandler(svc port.BatchConverter, usage port.UsageReader, maxFileBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := identityOf(r)
		snap, err := usage.Usage(r.Context(), identity)
		if err != nil {
			writeConversionError(w, r, err)
			return
		}
		limits := snap.Limits

		if err := parseMultipart(w, r, batchBodyLimit(limits, maxFileBytes)); err != nil {
			writeConversionError(w, r, err)
			return
		}
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()

		fhs := r.MultipartForm.File["files[]"]
		if len(fhs) == 0 {
			fhs = r.MultipartForm.File["files"]
		}
		if len(fhs) == 0 {
			writeConversionError(w, r, &conversion.ValidationError{
				Kind:   conversion.ErrValidation,
				Msg:    "at least one file is required",
				Fields: map[string]string{"files": "required"},
			})
			return
		}
		if len(fhs) > limits.MaxBatchSize {
			writeUsageHeaders(w, snap)
			writeConversionError(w, r, &conversion.AdmissionError{
				Reason:    conversion.ErrBatchTooLarge,
				Plan:      snap.Plan,
				Remaining: snap.Remaining,
				Limit:     limits.MaxBatchSize,
			})
			return
		}

		files := make([]port.UploadedFile, 0, len(fhs))
		for _, fh := range fhs {
			// Oversized files are left unread; the batch reports them as failures.
			if fh.Size > limits.MaxFileSizeBytes() {
				files = append(files, port.UploadedFile{Name: fh.Filename, Size: fh.Size})
				continue
			}
			f, err := readUpload(fh)
			if err != nil {
				WriteError(w, http.StatusBadRequest, "Could not read uploaded files", err)
				return
			}
			files = append(files, f)
		}

		out, err := svc.ConvertBatch(r.Context(), port.BatchConvertInput{
			Identity:     identity,
			Files:        files,
			TargetFormat: formValue(r, "targetFormat", "format"),
			Quality:      formValue(r, "quality"),
		})
		writeUsageHeaders(w, out.Usage)
		if err != nil {
			writeConversionError(w, r, err)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, http.StatusOK, out)
		logger.Infof(r.Context(), "✅  Batch %s done: %d/%d converted in %dms",
			out.Outcome.ID, out.Outcome.Succeeded, out.Outcome.Total, out.Outcome.ElapsedMs)
	}
}

func batchBodyLimit(limits model.PlanLimits, maxFileBytes int64) int64 {
	perFile := limits.MaxFileSizeBytes()
	if maxFileBytes > 0 && perFile > maxFileBytes {
		perFile = maxFileBytes
	}
	return int64(max(limits.MaxBatchSize, 1)) * perFile
}
