package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fhuszti/conversions-ms-go/internal/port"
)

type HistoryResponse struct {
	Items []HistoryItem `json:"items"`
}

type HistoryItem struct {
	ID               string  `json:"id"`
	OriginalFilename string  `json:"originalFilename"`
	SourceFormat     string  `json:"sourceFormat"`
	TargetFormat     string  `json:"targetFormat"`
	OriginalSize     int64   `json:"originalSize"`
	OutputSize       int64   `json:"outputSize"`
	Success          bool    `json:"success"`
	ErrorCode        *string `json:"errorCode,omitempty"`
	CreatedAt        string  `json:"createdAt"`
}

func HistoryHandler(svc port.HistoryLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				WriteError(w, http.StatusBadRequest, "limit must be a positive integer", nil)
				return
			}
			limit = n
		}

		recs, err := svc.ListHistory(r.Context(), identityOf(r), limit)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Could not list conversion history", err)
			return
		}

		resp := HistoryResponse{Items: make([]HistoryItem, len(recs))}
		for i, rec := range recs {
			resp.Items[i] = HistoryItem{
				ID:               rec.ID.String(),
				OriginalFilename: rec.OriginalFilename,
				SourceFormat:     rec.SourceFormat.String(),
				TargetFormat:     rec.TargetFormat.String(),
				OriginalSize:     rec.OriginalSize,
				OutputSize:       rec.OutputSize,
				Success:          rec.Success,
				ErrorCode:        rec.ErrorCode,
				CreatedAt:        rec.CreatedAt.UTC().Format(time.RFC3339),
			}
		}
		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, http.StatusOK, resp)
	}
}
