package notify

import "errors"

var (
	// ErrDispatcherClosed is returned when dispatching after Close.
	ErrDispatcherClosed = errors.New("notify: dispatcher is closed")

	// ErrMissingRecipient is returned by channels that need a resolvable recipient address.
	ErrMissingRecipient = errors.New("notify: notification has no resolvable recipient")

	// ErrEmailDeliveryFailed wraps provider-side email errors.
	ErrEmailDeliveryFailed = errors.New("notify: email delivery failed")
)
