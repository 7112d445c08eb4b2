package model

import "errors"

// Error kinds shared by every QMTools package.
// Callers wrap these with fmt.Errorf("...: %w", ...) so the message names the
// offending value while errors.Is still identifies the kind.
var (
	// ErrInvalidArgument is returned for a bad modality, query keyword,
	// comparison operator, empty comparison value or non-positive record count.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when an input file (criteria file, TSV file)
	// does not exist or cannot be read.
	ErrNotFound = errors.New("not found")

	// ErrMalformedInput is returned when input has the wrong structure:
	// a criteria line without a separating space, or a server response
	// that does not match the expected envelope.
	ErrMalformedInput = errors.New("malformed input")
)
