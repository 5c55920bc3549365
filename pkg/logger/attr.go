package logger

import (
	"log/slog"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// TenantID records the tenant identifier under the key "tenant_id".
// If id is nil, it returns an empty Attr.
func TenantID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("tenant_id", id)
}

// BookingID records the booking identifier under the key "booking_id".
// If id is nil, it returns an empty Attr.
func BookingID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("booking_id", id)
}

// ServiceID records the bookable service identifier under the key "service_id".
// If id is nil, it returns an empty Attr.
func ServiceID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("service_id", id)
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// ActorID records the acting user identifier under the key "actor_id".
// If id is nil, it returns an empty Attr.
func ActorID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("actor_id", id)
}

// Event records a lifecycle event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
