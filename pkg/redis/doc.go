// Package redis connects the application to Redis with retry and exposes a
// healthcheck probe. The realtime package builds its pub/sub emitter on the
// client this package produces.
package redis
