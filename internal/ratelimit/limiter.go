// Package ratelimit throttles requests per origin with a fixed window.
// Bursts straddling a window boundary are accepted.
package ratelimit

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fhuszti/conversions-ms-go/internal/port"
)

const (
	Window        = time.Minute
	UnknownOrigin = "unknown"
)

type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the number of whole seconds until the window resets, at least 1.
func (d Decision) RetryAfter(now time.Time) int {
	s := int(d.ResetAt.Sub(now).Round(time.Second).Seconds())
	if s < 1 {
		return 1
	}
	return s
}

type Limiter struct {
	store   port.RateStore
	ceiling int
	now     func() time.Time
}

func NewLimiter(store port.RateStore, perMinute int) *Limiter {
	return &Limiter{store: store, ceiling: perMinute, now: time.Now}
}

func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

func (l *Limiter) Now() time.Time { return l.now() }

func (l *Limiter) Allow(ctx context.Context, origin string) (Decision, error) {
	ok, w, err := l.store.Hit(ctx, origin, l.ceiling, Window, l.now())
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Allowed:   ok,
		Limit:     l.ceiling,
		Remaining: max(0, l.ceiling-w.Count),
		ResetAt:   w.ResetAt,
	}, nil
}

// OriginKey picks the first X-Forwarded-For entry, then X-Real-IP, then UnknownOrigin.
func OriginKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return UnknownOrigin
}
