package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() to tell them apart.
var (
	// ErrInvalidServerURL is returned when the server URL is empty or is not
	// an absolute http or https URL.
	ErrInvalidServerURL = errors.New("invalid server URL: must be an absolute http or https URL")

	// ErrInvalidPageSize is returned when the page size is not positive.
	ErrInvalidPageSize = errors.New("invalid page size: must be positive")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRecordCount is returned when the number of records to fetch
	// is not positive.
	ErrInvalidRecordCount = errors.New("invalid record count: must be positive")

	// ErrInvalidConcurrency is returned when the number of parallel fetch
	// sessions is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")
)
