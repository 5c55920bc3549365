package audit

import "errors"

var (
	// ErrStorageNotAvailable indicates the storage backend is unavailable.
	ErrStorageNotAvailable = errors.New("audit: storage backend is unavailable")

	// ErrRecordValidation indicates record validation failed.
	ErrRecordValidation = errors.New("audit: record validation failed")

	// ErrStorageTimeout indicates a storage operation timed out.
	ErrStorageTimeout = errors.New("audit: storage operation timed out")
)
