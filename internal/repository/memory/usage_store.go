package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
)

type UsageStore struct {
	keys    keyedMutex
	mu      sync.RWMutex
	records map[string]*model.UsageRecord
}

var _ port.UsageStore = (*UsageStore)(nil)

func NewUsageStore() *UsageStore {
	return &UsageStore{records: make(map[string]*model.UsageRecord)}
}

// load returns the record of identity with the period reset applied.
// The caller holds the identity lock.
func (s *UsageStore) load(identity string, plan model.PlanTier, limit int, now time.Time) *model.UsageRecord {
	s.mu.RLock()
	rec, ok := s.records[identity]
	s.mu.RUnlock()
	if !ok {
		rec = &model.UsageRecord{Identity: identity, PeriodStart: now}
		s.mu.Lock()
		s.records[identity] = rec
		s.mu.Unlock()
	}
	rec.Plan = plan
	if limit != model.Unlimited && rec.Expired(now) {
		rec.Used = 0
		rec.PeriodStart = now
	}
	return rec
}

func (s *UsageStore) Get(_ context.Context, identity string, plan model.PlanTier, limit int, now time.Time) (model.UsageRecord, error) {
	unlock := s.keys.lock(identity)
	defer unlock()
	return *s.load(identity, plan, limit, now), nil
}

func (s *UsageStore) Reserve(_ context.Context, identity string, plan model.PlanTier, limit int, now time.Time) (model.UsageRecord, bool, error) {
	unlock := s.keys.lock(identity)
	defer unlock()

	rec := s.load(identity, plan, limit, now)
	if limit != model.Unlimited && rec.Used >= limit {
		return *rec, false, nil
	}
	rec.Used++
	return *rec, true, nil
}

func (s *UsageStore) Release(_ context.Context, identity string) error {
	unlock := s.keys.lock(identity)
	defer unlock()

	s.mu.RLock()
	rec, ok := s.records[identity]
	s.mu.RUnlock()
	if ok && rec.Used > 0 {
		rec.Used--
	}
	return nil
}

// Prune drops records whose period ended, except on unlimited plans where
// the count never resets. It returns how many it removed.
func (s *UsageStore) Prune(now time.Time) int {
	s.mu.RLock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	n := 0
	for _, id := range ids {
		unlock := s.keys.lock(id)
		s.mu.Lock()
		if rec, ok := s.records[id]; ok && rec.Expired(now) && !model.LimitsFor(rec.Plan).Unlimited() {
			delete(s.records, id)
			n++
		}
		s.mu.Unlock()
		unlock()
	}
	return n
}

func (s *UsageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
