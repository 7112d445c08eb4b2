package main

import (
	"errors"

	"github.com/hickst/qmtools/internal/fetcher"
)

// Process exit codes. Each names the argument or resource that failed.
const (
	exitFailure     = 1
	exitInputFile   = 10
	exitOutputFile  = 11
	exitQueryFile   = 12
	exitFetchedDir  = 20
	exitReportsDir  = 22
	exitNumRecs     = 30
	exitUnavailable = 69
)

// exitError attaches a process exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// withExit wraps err so the process exits with code. A nil err stays nil.
func withExit(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCode returns the exit code for err.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, fetcher.ErrServiceUnavailable) {
		return exitUnavailable
	}
	return exitFailure
}
