// Package notify delivers booking lifecycle notifications.
//
// The Dispatcher interface is the boundary the booking core depends on.
// Delivery is best-effort and fire-and-forget: the orchestrator enqueues
// after a successful state transition and never blocks on, or fails from,
// delivery. AsyncDispatcher provides the buffered queue; MultiDispatcher fans
// out to several channels; EmailDispatcher is a Postmark-backed channel.
//
//	email, _ := notify.NewEmailDispatcher(cfg, resolveAddress)
//	dispatcher := notify.NewAsyncDispatcher(
//	    notify.NewMultiDispatcher([]notify.Dispatcher{email}),
//	    256,
//	)
//	defer dispatcher.Close()
package notify
