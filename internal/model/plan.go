package model

import "strings"

type PlanTier string

const (
	PlanFree     PlanTier = "free"
	PlanPro      PlanTier = "pro"
	PlanBusiness PlanTier = "business"
)

// Unlimited marks a plan without a conversion ceiling.
const Unlimited = -1

// PlanLimits is the fixed entitlement set of a tier.
type PlanLimits struct {
	MaxConversions   int  `json:"maxConversions"`
	MaxFileSizeMB    int  `json:"maxFileSizeMb"`
	MaxBatchSize     int  `json:"maxBatchSize"`
	CreativeEffects  bool `json:"creativeEffects"`
	WatermarkRemoval bool `json:"watermarkRemoval"`
}

func (l PlanLimits) Unlimited() bool { return l.MaxConversions == Unlimited }

func (l PlanLimits) MaxFileSizeBytes() int64 { return int64(l.MaxFileSizeMB) * 1024 * 1024 }

var planLimits = map[PlanTier]PlanLimits{
	PlanFree: {
		MaxConversions: 10,
		MaxFileSizeMB:  5,
		MaxBatchSize:   3,
	},
	PlanPro: {
		MaxConversions:   500,
		MaxFileSizeMB:    25,
		MaxBatchSize:     20,
		CreativeEffects:  true,
		WatermarkRemoval: true,
	},
	PlanBusiness: {
		MaxConversions:   Unlimited,
		MaxFileSizeMB:    100,
		MaxBatchSize:     100,
		CreativeEffects:  true,
		WatermarkRemoval: true,
	},
}

// LimitsFor returns the limits of tier, falling back to the free tier.
func LimitsFor(tier PlanTier) PlanLimits {
	if l, ok := planLimits[tier]; ok {
		return l
	}
	return planLimits[PlanFree]
}

func ParsePlanTier(s string) (PlanTier, bool) {
	t := PlanTier(strings.ToLower(strings.TrimSpace(s)))
	_, ok := planLimits[t]
	return t, ok
}
