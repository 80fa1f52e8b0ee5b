package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fhuszti/conversions-ms-go/internal/logger"
)

// ErrorResponse is the body of every non-2xx answer. Plan, Remaining and
// Limit are only set on admission denials so clients can show an upgrade prompt.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Plan      string            `json:"plan,omitempty"`
	Remaining *int              `json:"remaining,omitempty"`
	Limit     *int              `json:"limit,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, msg string, err error) {
	WriteErrorResponse(context.Background(), w, status, ErrorResponse{Error: msg}, err)
}

// WriteErrorResponse logs and writes body. ctx carries the request identity into the log line.
func WriteErrorResponse(ctx context.Context, w http.ResponseWriter, status int, body ErrorResponse, err error) {
	switch {
	case err != nil && status >= http.StatusInternalServerError:
		logger.Errorf(ctx, "❌  %s: %v", body.Error, err)
	case err != nil:
		logger.Warnf(ctx, "⚠️  %s: %v", body.Error, err)
	default:
		logger.Warn(ctx, "⚠️  "+body.Error)
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(w, status, body)
}

func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to encode JSON response: %v", err)
	}
}

func RespondRawJSON(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to write JSON payload: %v", err)
	}
}
