// Package logger provides a small factory around log/slog with the attribute
// vocabulary used across the booking core.
//
// Production defaults are JSON output at INFO level. Attributes such as
// tenant, booking and service identifiers have dedicated constructors so log
// keys stay consistent between packages. Context extractors let middleware
// inject request-scoped values (request IDs, actor IDs) into every record
// without threading them through call sites.
//
//	log := logger.New(
//	    logger.WithService("bookingkit"),
//	    logger.WithLevel(slog.LevelDebug),
//	)
//	log.InfoContext(ctx, "booking confirmed",
//	    logger.TenantID(tenantID),
//	    logger.BookingID(bookingID),
//	)
package logger
