package limits

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/slotwise/bookingkit/pkg/clock"
	"github.com/slotwise/bookingkit/pkg/subscription"
)

// Service evaluates tenant resource limits against the plan of the tenant's
// current subscription. The evaluation itself is side-effect-free: a pure
// decision over counted state.
type Service struct {
	// catalog is treated as immutable after construction; thread safety
	// depends on there being no runtime modifications.
	catalog  map[string]subscription.Plan
	subs     subscription.Store
	counters CounterRegistry
	clock    clock.Clock
}

// Option configures a Service during construction.
type Option func(*Service)

// WithClock overrides the time source used for usage windows.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// NewService creates a limit evaluator. Plans are loaded once from src; the
// current subscription is resolved per check through subs.
func NewService(ctx context.Context, src subscription.Source, subs subscription.Store, counters CounterRegistry, opts ...Option) (*Service, error) {
	catalog, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}
	if catalog == nil {
		catalog = make(map[string]subscription.Plan)
	}
	if counters == nil {
		counters = NewRegistry()
	}

	s := &Service{
		catalog:  catalog,
		subs:     subs,
		counters: counters,
		clock:    clock.System(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CheckLimit decides whether the tenant may create another instance of res.
// A cancelled subscription still resolves to its plan: cancellation is the
// subscription lifecycle's concern, not the evaluator's. A missing
// subscription propagates subscription.ErrNoActiveSubscription, which is
// fatal to the calling write operation.
func (s *Service) CheckLimit(ctx context.Context, tenantID uuid.UUID, res Resource) (Decision, error) {
	if !res.Valid() {
		return Decision{}, ErrInvalidResource
	}

	sub, err := s.subs.Current(ctx, tenantID)
	if err != nil {
		return Decision{}, err
	}

	plan, ok := s.catalog[sub.PlanID]
	if !ok {
		return Decision{}, ErrPlanNotFound
	}

	limit := s.limitFor(plan, res)
	if subscription.IsUnlimited(limit) {
		return Decision{Allowed: true, Current: 0, Limit: limit, PlanName: plan.Name}, nil
	}

	counter, ok := s.counters[res]
	if !ok {
		return Decision{}, ErrNoCounterRegistered
	}

	current, err := counter(ctx, tenantID, s.windowFor(res))
	if err != nil {
		return Decision{}, errors.Join(ErrFailedToCountUsage, err)
	}

	return Decision{
		Allowed:  current < limit,
		Current:  current,
		Limit:    limit,
		PlanName: plan.Name,
	}, nil
}

// CanCreate is a convenience wrapper over CheckLimit that converts a denied
// decision into a LimitExceededError.
func (s *Service) CanCreate(ctx context.Context, tenantID uuid.UUID, res Resource) error {
	decision, err := s.CheckLimit(ctx, tenantID, res)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return &LimitExceededError{
			Resource: res,
			Current:  decision.Current,
			Limit:    decision.Limit,
			PlanName: decision.PlanName,
		}
	}
	return nil
}

// GetUsage returns the current usage and limit for a resource in a tenant.
func (s *Service) GetUsage(ctx context.Context, tenantID uuid.UUID, res Resource) (used, limit int64, err error) {
	if !res.Valid() {
		return 0, 0, ErrInvalidResource
	}

	sub, err := s.subs.Current(ctx, tenantID)
	if err != nil {
		return 0, 0, err
	}

	plan, ok := s.catalog[sub.PlanID]
	if !ok {
		return 0, 0, ErrPlanNotFound
	}

	counter, ok := s.counters[res]
	if !ok {
		return 0, 0, ErrNoCounterRegistered
	}

	current, err := counter(ctx, tenantID, s.windowFor(res))
	if err != nil {
		return 0, 0, errors.Join(ErrFailedToCountUsage, err)
	}

	return current, s.limitFor(plan, res), nil
}

// HasFeature reports whether the tenant's current plan enables the feature.
// Lookup failures read as "feature disabled".
func (s *Service) HasFeature(ctx context.Context, tenantID uuid.UUID, feature subscription.Feature) bool {
	sub, err := s.subs.Current(ctx, tenantID)
	if err != nil {
		return false
	}
	plan, ok := s.catalog[sub.PlanID]
	if !ok {
		return false
	}
	return plan.HasFeature(feature)
}

func (s *Service) limitFor(plan subscription.Plan, res Resource) int64 {
	switch res {
	case ResourceUsers:
		return plan.MaxUsers
	case ResourceServices:
		return plan.MaxServices
	case ResourceBookingsPerMonth:
		return plan.MaxBookingsPerMonth
	default:
		return 0
	}
}

func (s *Service) windowFor(res Resource) Window {
	if res == ResourceBookingsPerMonth {
		return MonthWindow(s.clock.Now())
	}
	return Window{}
}
