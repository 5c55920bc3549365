// Package pg provides PostgreSQL connection management for the booking core.
//
// It wraps pgxpool with environment-driven configuration, startup retry
// logic, goose migrations, and error classifiers for the SQLSTATEs the
// booking store depends on: unique and exclusion constraint violations
// (mapped to domain conflicts) and serialization/lock failures (mapped to
// retryable transient errors).
package pg
