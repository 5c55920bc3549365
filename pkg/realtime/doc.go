// Package realtime publishes live UI update events after successful booking
// lifecycle transitions.
//
// The Emitter interface is scoped by tenant (dashboard views) or user
// (personal booking lists). Two implementations ship: an in-process Hub with
// non-blocking, slow-consumer-dropping delivery, and a Redis pub/sub emitter
// for multi-instance deployments. Both are best-effort by contract: the
// booking core ignores emission failures.
package realtime
