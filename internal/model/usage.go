package model

import "time"

// UsagePeriod is the length after which a finite plan's counter resets.
const UsagePeriod = 24 * time.Hour

// UsageRecord is the per-identity conversion counter.
type UsageRecord struct {
	Identity    string    `json:"identity"`
	Used        int       `json:"used"`
	PeriodStart time.Time `json:"periodStart"`
	Plan        PlanTier  `json:"plan"`
}

// Expired reports whether the period has run out at now.
func (r UsageRecord) Expired(now time.Time) bool {
	return !r.PeriodStart.IsZero() && now.Sub(r.PeriodStart) >= UsagePeriod
}

// RateWindow is the fixed request window of one origin.
type RateWindow struct {
	Count   int       `json:"count"`
	ResetAt time.Time `json:"resetAt"`
}

// UsageSnapshot is what callers see of their quota.
type UsageSnapshot struct {
	Identity  string     `json:"identity"`
	Plan      PlanTier   `json:"plan"`
	Used      int        `json:"used"`
	Limit     int        `json:"limit"`
	Remaining int        `json:"remaining"`
	ResetsAt  *time.Time `json:"resetsAt,omitempty"`
	Limits    PlanLimits `json:"limits"`
}
