// Package limits enforces per-tenant resource caps derived from subscription
// plans.
//
// The evaluator resolves the tenant's current subscription, reads the cap for
// the requested resource from its plan, and compares it against a live usage
// count supplied by a registered CounterFunc. Caps of zero or below mean
// unlimited. Monthly-metered resources (bookings) are counted over the
// current calendar month; gauge resources (users, services) count live rows.
//
// Counters must be transactionally consistent with concurrent creates: the
// booking orchestrator evaluates CanCreate inside the same serialized scope
// as the insert that follows it, so the count cannot go stale between check
// and write.
//
//	counters := limits.NewRegistry()
//	counters.Register(limits.ResourceBookingsPerMonth, store.CountBookings)
//
//	svc, err := limits.NewService(ctx, catalogSource, subStore, counters)
//	if err := svc.CanCreate(ctx, tenantID, limits.ResourceBookingsPerMonth); err != nil {
//	    var lim *limits.LimitExceededError
//	    if errors.As(err, &lim) {
//	        // lim.Current, lim.Limit, lim.PlanName for client messaging
//	    }
//	}
package limits
