package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fhuszti/conversions-ms-go/internal/api_context"
)

func TestWithIdentity(t *testing.T) {
	tests := []struct {
		name    string
		authSub string
		userID  string
		session string
		wantID  string
	}{
		{"anonymous", "", "", "", "anonymous"},
		{"session only", "", "", "sess-9", "sess-9"},
		{"user beats session", "", "user-1", "sess-9", "user-1"},
		{"token subject beats headers", "sub-7", "user-1", "sess-9", "sub-7"},
		{"blank header ignored", "", "   ", "sess-9", "sess-9"},
		{"long header truncated", "", strings.Repeat("x", 300), "", strings.Repeat("x", 128)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = api_context.IdentityFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/usage", nil)
			if tc.userID != "" {
				req.Header.Set(UserIDHeader, tc.userID)
			}
			if tc.session != "" {
				req.Header.Set(SessionIDHeader, tc.session)
			}
			if tc.authSub != "" {
				req = req.WithContext(contextWithSub(req, tc.authSub))
			}

			WithIdentity()(next).ServeHTTP(httptest.NewRecorder(), req)
			if got != tc.wantID {
				t.Fatalf("identity = %q; want %q", got, tc.wantID)
			}
		})
	}
}

func contextWithSub(r *http.Request, sub string) context.Context {
	return context.WithValue(r.Context(), api_context.AuthUserIDKey, sub)
}
