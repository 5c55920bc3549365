// Package subscription models subscription tiers and the binding between a
// tenant and its plan.
//
// A Plan carries per-resource caps (users, services, bookings per month) where
// a value of zero or below means unlimited, plus feature flags and trial
// configuration. The plan catalog is loaded through the Source interface;
// NewInMemSource serves static maps and NewYAMLSource reads a YAML catalog
// file.
//
// A Subscription binds a tenant to a plan with a status and billing period.
// Status semantics relevant to admission control:
//
//   - past_due blocks write operations (enforced by the booking orchestrator)
//   - cancelled still resolves to its plan for limit evaluation
//   - a tenant with no subscription row at all fails writes fatally
package subscription
