package api

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/fhuszti/conversions-ms-go/internal/logger"
	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
	"github.com/fhuszti/conversions-ms-go/internal/usecase/conversion"
)

// ConvertHandler answers with the converted bytes. Metadata and the
// caller's usage travel in headers.
func ConvertHandler(svc port.Converter, maxFileBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseMultipart(w, r, maxFileBytes); err != nil {
			writeConversionError(w, r, err)
			return
		}
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()

		fhs := r.MultipartForm.File["file"]
		if len(fhs) == 0 {
			writeConversionError(w, r, &conversion.ValidationError{
				Kind:   conversion.ErrValidation,
				Msg:    "file is required",
				Fields: map[string]string{"file": "required"},
			})
			return
		}
		file, err := readUpload(fhs[0])
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Could not read uploaded file", err)
			return
		}

		identity := identityOf(r)
		out, err := svc.Convert(r.Context(), port.ConvertInput{
			Identity:     identity,
			File:         file,
			SourceFormat: formValue(r, "sourceFormat"),
			TargetFormat: formValue(r, "targetFormat", "format"),
			Options:      rawOptions(r),
		})
		writeUsageHeaders(w, out.Usage)
		if err != nil {
			writeConversionError(w, r, err)
			return
		}

		res := out.Result
		h := w.Header()
		h.Set("Content-Type", res.Metadata.Format.MimeType())
		h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
		h.Set("Content-Length", strconv.Itoa(len(res.Data)))
		h.Set("Cache-Control", "no-store")
		writeMetadataHeaders(w, res)

		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(res.Data); err != nil {
			logger.Errorf(r.Context(), "❌  Failed to write converted image: %v", err)
			return
		}
		logger.Infof(r.Context(), "✅  Converted %q to %s (%d bytes)", res.OriginalFilename, res.Metadata.Format, res.Metadata.Size)
	}
}

func writeMetadataHeaders(w http.ResponseWriter, res model.ConversionResult) {
	h := w.Header()
	h.Set("X-Conversion-Original-Filename", res.OriginalFilename)
	h.Set("X-Conversion-Format", res.Metadata.Format.String())
	h.Set("X-Conversion-Size", strconv.FormatInt(res.Metadata.Size, 10))
	h.Set("X-Conversion-Compression-Ratio", strconv.FormatFloat(res.Metadata.CompressionRatio, 'f', 4, 64))
	if res.Metadata.Width > 0 {
		h.Set("X-Conversion-Width", strconv.Itoa(res.Metadata.Width))
		h.Set("X-Conversion-Height", strconv.Itoa(res.Metadata.Height))
	}
	if res.DownloadURL != "" {
		h.Set("X-Conversion-Download-URL", res.DownloadURL)
	}
}

func writeUsageHeaders(w http.ResponseWriter, u model.UsageSnapshot) {
	if u.Plan == "" {
		return
	}
	h := w.Header()
	h.Set("X-Usage-Plan", string(u.Plan))
	h.Set("X-Usage-Used", strconv.Itoa(u.Used))
	h.Set("X-Usage-Limit", strconv.Itoa(u.Limit))
	h.Set("X-Usage-Remaining", strconv.Itoa(u.Remaining))
	if u.ResetsAt != nil {
		h.Set("X-Usage-Reset", u.ResetsAt.UTC().Format(http.TimeFormat))
	}
}
