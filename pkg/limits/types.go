package limits

import "time"

// Resource represents a countable tenant resource type.
type Resource string

// Predefined resource types.
const (
	ResourceUsers            Resource = "users"
	ResourceServices         Resource = "services"
	ResourceBookingsPerMonth Resource = "bookings_per_month"
)

// Valid reports whether r is a known resource.
func (r Resource) Valid() bool {
	switch r {
	case ResourceUsers, ResourceServices, ResourceBookingsPerMonth:
		return true
	}
	return false
}

// Window is the time range a usage count applies to, with both bounds
// inclusive. The zero Window means the resource is a gauge (current row
// count) rather than a windowed counter.
type Window struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the window is unset.
func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// MonthWindow returns the usage window for monthly-metered resources:
// from the first instant of now's calendar month (UTC) up to and including
// now, so rows created in the same instant as the check still count.
func MonthWindow(now time.Time) Window {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: now}
}

// Decision is the outcome of a limit check, with enough detail for the caller
// to render a precise message.
type Decision struct {
	Allowed  bool   `json:"allowed"`
	Current  int64  `json:"current"`
	Limit    int64  `json:"limit"`
	PlanName string `json:"plan_name"`
}
