// Package bookingpg persists the booking core in PostgreSQL via pgx.
//
// Concurrency model: Store.WithSlotLock opens a transaction and takes a
// transaction-scoped advisory lock derived from the (tenant, service) pair,
// serializing all writers of one slot while leaving other slots untouched.
// Store methods called inside the locked scope join the transaction through
// the context, so the availability check, the plan-limit count and the
// insert commit or roll back as one unit.
//
// The bookings table additionally carries a GiST range-exclusion constraint
// over blocking bookings. It is defense in depth: a violation means a write
// path bypassed the lock, and it surfaces as booking.ErrSlotConflict rather
// than an internal error. Serialization failures, deadlocks and lock
// timeouts map to booking.ErrTransientStore, which the orchestrator retries.
//
// Schema migrations live under migrations/ and are applied with goose via
// pg.Migrate.
package bookingpg
