// Package audit records who changed what in the booking core.
//
// The Sink interface is the boundary the orchestrator depends on; recording
// is best-effort and never fails the audited operation. Records flow through
// an optional AsyncWriter that batches writes before handing them to a
// Storage backend (in-memory for tests, MongoDB for production).
//
//	storage, _ := audit.NewMongoStorage(db.Collection("audit"))
//	writer, closeFn := audit.NewAsyncWriter(storage, audit.AsyncOptions{})
//	defer closeFn(context.Background())
//
//	sink := audit.NewSink(writer)
//	_ = sink.Record(ctx, audit.Record{
//	    Action:     "booking.cancel",
//	    EntityType: "booking",
//	    EntityID:   bookingID.String(),
//	})
package audit
