package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
)

type RateStore struct {
	mu      sync.Mutex
	windows map[string]model.RateWindow
}

var _ port.RateStore = (*RateStore)(nil)

func NewRateStore() *RateStore {
	return &RateStore{windows: make(map[string]model.RateWindow)}
}

func (s *RateStore) Hit(_ context.Context, key string, ceiling int, window time.Duration, now time.Time) (bool, model.RateWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || now.After(w.ResetAt) {
		w = model.RateWindow{Count: 1, ResetAt: now.Add(window)}
		s.windows[key] = w
		return true, w, nil
	}
	if w.Count < ceiling {
		w.Count++
		s.windows[key] = w
		return true, w, nil
	}
	return false, w, nil
}

// Prune drops windows that ended before now and returns how many it removed.
func (s *RateStore) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k, w := range s.windows {
		if now.After(w.ResetAt) {
			delete(s.windows, k)
			n++
		}
	}
	return n
}

func (s *RateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
