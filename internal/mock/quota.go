package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/fhuszti/conversions-ms-go/internal/port"
)

// MockQuota is an in-memory quota tracker for a single plan.
type MockQuota struct {
	mu sync.Mutex

	Plan model.PlanTier
	Used int

	// DenyIncrement makes IncrementUsage refuse even when quota is left,
	// as if another request won the last slot.
	DenyIncrement bool

	CanConvertErr error
	IncrementErr  error
	ReleaseErr    error
	SnapshotErr   error

	CanConvertCalls int
	IncrementCalls  int
	ReleaseCalls    int
}

func (m *MockQuota) limits() model.PlanLimits {
	return model.LimitsFor(m.Plan)
}

func (m *MockQuota) remaining() int {
	l := m.limits()
	if l.Unlimited() {
		return model.Unlimited
	}
	if r := l.MaxConversions - m.Used; r > 0 {
		return r
	}
	return 0
}

func (m *MockQuota) CanConvert(ctx context.Context, identity string) (port.Admission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CanConvertCalls++
	if m.CanConvertErr != nil {
		return port.Admission{}, m.CanConvertErr
	}
	l := m.limits()
	return port.Admission{
		Allowed:   l.Unlimited() || m.Used < l.MaxConversions,
		Remaining: m.remaining(),
		Used:      m.Used,
		Plan:      m.Plan,
		Limits:    l,
	}, nil
}

func (m *MockQuota) IncrementUsage(ctx context.Context, identity string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IncrementCalls++
	if m.IncrementErr != nil {
		return false, m.IncrementErr
	}
	l := m.limits()
	if m.DenyIncrement || (!l.Unlimited() && m.Used >= l.MaxConversions) {
		return false, nil
	}
	m.Used++
	return true, nil
}

func (m *MockQuota) ReleaseUsage(ctx context.Context, identity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReleaseCalls++
	if m.ReleaseErr != nil {
		return m.ReleaseErr
	}
	if m.Used > 0 {
		m.Used--
	}
	return nil
}

func (m *MockQuota) Snapshot(ctx context.Context, identity string) (model.UsageSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SnapshotErr != nil {
		return model.UsageSnapshot{}, m.SnapshotErr
	}
	l := m.limits()
	return model.UsageSnapshot{
		Identity:  identity,
		Plan:      m.Plan,
		Used:      m.Used,
		Limit:     l.MaxConversions,
		Remaining: m.remaining(),
		Limits:    l,
	}, nil
}
