package api

import (
	"net/http"

	"github.com/fhuszti/conversions-ms-go/internal/port"
)

func UsageHandler(svc port.UsageReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Usage(r.Context(), identityOf(r))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Could not read usage", err)
			return
		}
		writeUsageHeaders(w, snap)
		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, http.StatusOK, snap)
	}
}
