package limits

import (
	"errors"
	"fmt"
)

var (
	ErrLimitExceeded       = errors.New("limits: resource limit exceeded")
	ErrInvalidResource     = errors.New("limits: invalid resource")
	ErrNoCounterRegistered = errors.New("limits: no usage counter registered for resource")
	ErrFailedToLoadPlans   = errors.New("limits: failed to load plans")
	ErrFailedToCountUsage  = errors.New("limits: failed to count resource usage")
	ErrPlanNotFound        = errors.New("limits: plan not found")
)

// LimitExceededError carries the structured detail of a denied limit check.
// It matches ErrLimitExceeded under errors.Is.
type LimitExceededError struct {
	Resource Resource
	Current  int64
	Limit    int64
	PlanName string
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("limits: %s limit exceeded on plan %q (%d/%d)",
		e.Resource, e.PlanName, e.Current, e.Limit)
}

func (e *LimitExceededError) Is(target error) bool {
	return target == ErrLimitExceeded
}
