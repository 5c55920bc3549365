package realtime

import "errors"

var (
	ErrEncodeEvent   = errors.New("realtime: failed to encode event")
	ErrPublishFailed = errors.New("realtime: failed to publish event")
)
