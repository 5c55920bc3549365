package subscription

// Status represents the current state of a subscription.
type Status string

const (
	StatusTrialing  Status = "trialing"
	StatusActive    Status = "active"
	StatusPastDue   Status = "past_due"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is one of the known subscription statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTrialing, StatusActive, StatusPastDue, StatusCancelled:
		return true
	}
	return false
}

// Feature represents a plan-specific capability that can be enabled/disabled.
type Feature string

const (
	FeatureReminders    Feature = "reminders"
	FeatureRealtime     Feature = "realtime"
	FeatureAuditLog     Feature = "audit_log"
	FeatureCustomDomain Feature = "custom_domain"
	FeatureExport       Feature = "export"
)
