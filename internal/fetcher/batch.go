package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of sessions a BatchFetcher runs at once.
const DefaultConcurrency = 3

// BatchFetcher runs fetch sessions for several modalities concurrently.
// Each session has its own checksum set and accumulator, so sessions share
// nothing but the HTTP client.
type BatchFetcher struct {
	fetcher     *Fetcher
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchFetcher.
type BatchOption func(*BatchFetcher)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchFetcher) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithConcurrency sets the maximum number of concurrent sessions.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchFetcher) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchFetcher creates a BatchFetcher running sessions with f.
func NewBatchFetcher(f *Fetcher, opts ...BatchOption) *BatchFetcher {
	b := &BatchFetcher{
		fetcher:     f,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FetchAll runs one session per request.
//
// Results are returned in request order. A failed session does not stop
// the others; its Result carries the error in Err and no records. The
// returned error joins every session error, and is nil when all succeeded.
// Cancelling ctx stops sessions between pages.
func (b *BatchFetcher) FetchAll(ctx context.Context, reqs []Request) ([]*Result, error) {
	b.logger.Info("starting batch fetch",
		"sessions", len(reqs),
		"concurrency", b.concurrency,
	)
	start := time.Now()

	results := make([]*Result, len(reqs))

	var g errgroup.Group
	g.SetLimit(b.concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			res, err := b.fetcher.Fetch(ctx, req)
			if err != nil {
				b.logger.Warn("fetch failed",
					"modality", req.Modality,
					"error", err,
				)
				results[i] = &Result{Modality: req.Modality, Criteria: req.Criteria, Err: err}
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // session errors are stored in results

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}

	b.logger.Info("batch fetch complete",
		"sessions", len(reqs),
		"failed", len(errs),
		"elapsed", time.Since(start),
	)
	return results, errors.Join(errs...)
}
