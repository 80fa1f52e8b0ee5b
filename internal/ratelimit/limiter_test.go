package ratelimit

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fhuszti/conversions-ms-go/internal/repository/memory"
)

func TestLimiter_EleventhRequestDenied(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(memory.NewRateStore(), 10).WithClock(func() time.Time { return now })
	ctx := context.Background()

	for n := 1; n <= 10; n++ {
		d, err := l.Allow(ctx, "1.1.1.1")
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !d.Allowed {
			t.Fatalf("request %d denied", n)
		}
		if d.Remaining != 10-n {
			t.Errorf("request %d: remaining = %d; want %d", n, d.Remaining, 10-n)
		}
	}

	d, _ := l.Allow(ctx, "1.1.1.1")
	if d.Allowed {
		t.Fatal("11th request should be denied")
	}
	if got := d.RetryAfter(now); got != 60 {
		t.Errorf("RetryAfter = %d; want 60", got)
	}

	now = now.Add(Window + time.Second)
	d, _ = l.Allow(ctx, "1.1.1.1")
	if !d.Allowed {
		t.Fatal("request in next window should be allowed")
	}
}

func TestOriginKey(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"forwarded list", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"forwarded wins over real ip", map[string]string{"X-Forwarded-For": "203.0.113.7", "X-Real-IP": "198.51.100.2"}, "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.2"}, "198.51.100.2"},
		{"none", nil, UnknownOrigin},
		{"blank forwarded", map[string]string{"X-Forwarded-For": " , 10.0.0.1"}, UnknownOrigin},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = "192.0.2.1:1234"
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}
			if got := OriginKey(r); got != tc.want {
				t.Errorf("OriginKey() = %q; want %q", got, tc.want)
			}
		})
	}
}
