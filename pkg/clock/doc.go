// Package clock provides an injectable time source.
//
// The booking core makes several time-sensitive decisions (rejecting bookings
// in the past, computing the current calendar-month usage window) that must be
// reproducible in tests. Production code uses clock.System(); tests use
// clock.NewMock(fixedTime) and advance it explicitly.
package clock
