package subscription

import (
	"slices"
	"time"
)

// Plan describes a subscription tier and its resource caps.
// A cap of zero or below means unlimited; this keeps downgraded and legacy
// rows readable without a sentinel column.
type Plan struct {
	ID                  string    `yaml:"id"`
	Name                string    `yaml:"name"`
	Description         string    `yaml:"description"`
	MaxUsers            int64     `yaml:"max_users"`
	MaxServices         int64     `yaml:"max_services"`
	MaxBookingsPerMonth int64     `yaml:"max_bookings_per_month"`
	Features            []Feature `yaml:"features"`
	Public              bool      `yaml:"public"`    // available for self-service signup
	TrialDays           int       `yaml:"trial_days"` // 0 disables trial
}

// IsUnlimited reports whether the given cap value denotes "no limit".
func IsUnlimited(limit int64) bool {
	return limit <= 0
}

// HasFeature reports whether the plan enables the given feature flag.
func (p Plan) HasFeature(f Feature) bool {
	return slices.Contains(p.Features, f)
}

// TrialEndsAt returns when a trial started at startedAt ends.
// Returns startedAt unchanged if the plan has no trial.
func (p Plan) TrialEndsAt(startedAt time.Time) time.Time {
	if p.TrialDays <= 0 {
		return startedAt
	}
	return startedAt.AddDate(0, 0, p.TrialDays).UTC()
}

// IsTrialActive reports whether a trial started at startedAt is still running at now.
func (p Plan) IsTrialActive(startedAt, now time.Time) bool {
	if p.TrialDays <= 0 {
		return false
	}
	return now.UTC().Before(p.TrialEndsAt(startedAt))
}
