package middleware

import (
	"net/http"
	"strings"

	"github.com/fhuszti/conversions-ms-go/internal/api_context"
	"github.com/fhuszti/conversions-ms-go/internal/handler/api"
)

const (
	UserIDHeader    = "X-User-ID"
	SessionIDHeader = "X-Session-ID"
	maxIdentityLen  = 128
)

// WithIdentity resolves who quota is charged to: the authenticated subject,
// else X-User-ID, else X-Session-ID, else anonymous.
func WithIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := resolveIdentity(r)
			ctx := api_context.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveIdentity(r *http.Request) string {
	if sub, ok := api_context.AuthUserIDFromContext(r.Context()); ok {
		return sub
	}
	for _, h := range []string{UserIDHeader, SessionIDHeader} {
		if v := strings.TrimSpace(r.Header.Get(h)); v != "" {
			if len(v) > maxIdentityLen {
				v = v[:maxIdentityLen]
			}
			return v
		}
	}
	return api.AnonymousIdentity
}
