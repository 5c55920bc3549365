// Package mongo connects the application to MongoDB with retry and exposes a
// healthcheck probe. The audit package stores its trail in a collection
// obtained from the client this package produces.
package mongo
