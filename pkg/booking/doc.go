// Package booking is the appointment-booking core: the slot lifecycle, the
// availability rules and the concurrency discipline around them.
//
// The central type is Orchestrator, which exposes the write operations
// (Create, Confirm, Reschedule, Cancel, Complete, NoShow, Remove) and the
// reads (Get, List). Each write runs its admission checks and its mutation
// inside the store's per-slot lock, so two concurrent requests for the same
// (tenant, service) slot cannot both pass the availability check. Plan
// limits from pkg/limits are evaluated inside the same scope.
//
// Intervals are half-open [StartAt, EndAt): a booking ending exactly when
// another starts is not a conflict. Only cancelled bookings release their
// interval.
//
// Side effects (notifications, realtime events, audit records) fire after a
// successful write on background goroutines and never affect the outcome of
// the operation that triggered them.
//
// Store abstracts persistence; bookingpg provides the PostgreSQL
// implementation and MemStore an in-memory one for tests.
package booking
