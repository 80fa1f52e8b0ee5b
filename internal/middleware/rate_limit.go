package middleware

import (
	"net/http"
	"strconv"

	"github.com/fhuszti/conversions-ms-go/internal/api_context"
	"github.com/fhuszti/conversions-ms-go/internal/handler/api"
	"github.com/fhuszti/conversions-ms-go/internal/logger"
	"github.com/fhuszti/conversions-ms-go/internal/metrics"
	"github.com/fhuszti/conversions-ms-go/internal/ratelimit"
	"github.com/fhuszti/conversions-ms-go/internal/usecase/conversion"
)

// WithRateLimit enforces the per-origin request ceiling. Store failures
// fail open.
func WithRateLimit(l *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := ratelimit.OriginKey(r)
			ctx := api_context.WithOrigin(r.Context(), origin)
			r = r.WithContext(ctx)

			d, err := l.Allow(ctx, origin)
			if err != nil {
				logger.Warnf(ctx, "⚠️  rate limiter store error, failing open: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

			if !d.Allowed {
				retry := d.RetryAfter(l.Now())
				h.Set("Retry-After", strconv.Itoa(retry))
				metrics.AdmissionDeniedTotal.WithLabelValues(conversion.CodeRateLimited).Inc()
				api.WriteErrorResponse(ctx, w, http.StatusTooManyRequests, api.ErrorResponse{
					Error: "too many requests, retry in " + strconv.Itoa(retry) + "s",
					Code:  conversion.CodeRateLimited,
				}, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
