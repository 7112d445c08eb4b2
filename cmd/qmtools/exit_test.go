package main

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/hickst/qmtools/internal/fetcher"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	unavailable := &fetcher.StatusError{StatusCode: http.StatusServiceUnavailable, URL: "http://x/bold"}
	notFound := &fetcher.StatusError{StatusCode: http.StatusNotFound, URL: "http://x/bold"}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "plain error", err: errors.New("boom"), want: exitFailure},
		{name: "tagged error", err: withExit(exitQueryFile, errors.New("bad query")), want: exitQueryFile},
		{name: "wrapped tagged error", err: fmt.Errorf("fetch: %w", withExit(exitNumRecs, errors.New("n"))), want: exitNumRecs},
		{name: "service unavailable", err: fmt.Errorf("fetch failed: %w", unavailable), want: exitUnavailable},
		{name: "joined service unavailable", err: errors.Join(errors.New("bold: ok"), unavailable), want: exitUnavailable},
		{name: "other status", err: notFound, want: exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithExitNil(t *testing.T) {
	t.Parallel()

	if err := withExit(exitOutputFile, nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
