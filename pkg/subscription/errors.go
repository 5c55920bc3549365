package subscription

import "errors"

var (
	// ErrNoActiveSubscription is returned when a tenant has no current
	// subscription. Fatal to the calling write operation; not retried.
	ErrNoActiveSubscription = errors.New("subscription: tenant has no active subscription")

	ErrPlanNotFound             = errors.New("subscription: plan not found")
	ErrInvalidPlanConfiguration = errors.New("subscription: invalid plan configuration")
	ErrFailedToLoadPlans        = errors.New("subscription: failed to load plans")
	ErrInvalidStatus            = errors.New("subscription: invalid status")
)
