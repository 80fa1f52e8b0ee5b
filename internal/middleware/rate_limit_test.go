package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fhuszti/conversions-ms-go/internal/api_context"
	"github.com/fhuszti/conversions-ms-go/internal/ratelimit"
	"github.com/fhuszti/conversions-ms-go/internal/repository/memory"
	"github.com/fhuszti/conversions-ms-go/internal/repository/redisstore"
	"github.com/redis/go-redis/v9"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/conversions", nil)
	req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWithRateLimit_BlocksOverLimitThenResets(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)}
	l := ratelimit.NewLimiter(memory.NewRateStore(), 10).WithClock(clock.now)
	h := WithRateLimit(l)(okHandler())

	for i := 0; i < 10; i++ {
		if rec := hit(h, "1.2.3.4"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := hit(h, "1.2.3.4")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected Retry-After: 60, got %q", rec.Header().Get("Retry-After"))
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("remaining = %q", rec.Header().Get("X-RateLimit-Remaining"))
	}

	clock.t = clock.t.Add(time.Minute + time.Second)
	if rec := hit(h, "1.2.3.4"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 in the next window, got %d", rec.Code)
	}
}

func TestWithRateLimit_OriginsIndependent(t *testing.T) {
	l := ratelimit.NewLimiter(memory.NewRateStore(), 2)
	h := WithRateLimit(l)(okHandler())

	hit(h, "1.1.1.1")
	hit(h, "1.1.1.1")
	if rec := hit(h, "1.1.1.1"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for exhausted origin, got %d", rec.Code)
	}
	if rec := hit(h, "2.2.2.2"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a different origin, got %d", rec.Code)
	}
}

func TestWithRateLimit_StoresOriginInContext(t *testing.T) {
	l := ratelimit.NewLimiter(memory.NewRateStore(), 5)
	var origin string
	h := WithRateLimit(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin, _ = api_context.OriginFromContext(r.Context())
	}))

	hit(h, "9.9.9.9")
	if origin != "9.9.9.9" {
		t.Fatalf("origin = %q", origin)
	}
}

func TestWithRateLimit_FailsOpenOnRedisError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	l := ratelimit.NewLimiter(redisstore.NewRateStore(client), 1)
	h := WithRateLimit(l)(okHandler())

	mr.Close()

	for i := 0; i < 3; i++ {
		if rec := hit(h, "3.3.3.3"); rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on Redis failure (fail-open), got %d", rec.Code)
		}
	}
}
