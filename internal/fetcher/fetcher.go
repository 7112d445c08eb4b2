package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hickst/qmtools/internal/model"
	"github.com/hickst/qmtools/internal/pipeline"
	"github.com/hickst/qmtools/internal/query"
)

// Request describes one fetch session.
type Request struct {
	// Modality selects the records to fetch.
	Modality model.Modality

	// Target is the number of unique records wanted. Must be at least 1.
	Target int

	// Criteria optionally restricts the records returned by the server.
	Criteria query.Criteria
}

// Result is the outcome of one fetch session.
type Result struct {
	// Modality is the modality that was fetched.
	Modality model.Modality

	// Records holds at most Target unique, flattened, cleaned records in
	// the order the server returned them.
	Records []model.Record

	// Criteria are the criteria the session was run with.
	Criteria query.Criteria

	// FirstQuery is the URL of the first page requested.
	FirstQuery string

	// Pages is the number of pages requested, including a final empty one.
	Pages int

	// Stats accumulates deduplication counts over all pages.
	Stats model.DedupStats

	// StartedAt and FinishedAt bound the session.
	StartedAt  time.Time
	FinishedAt time.Time

	// Err is the session error when run as part of a batch.
	Err error
}

// Fetcher runs paginated fetch sessions.
type Fetcher struct {
	client  *Client
	vocab   *model.Vocabulary
	latest  bool
	metrics *Metrics
	logger  *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLatest controls whether the most recently created records are
// requested first. Enabled by default.
func WithLatest(latest bool) Option {
	return func(f *Fetcher) {
		f.latest = latest
	}
}

// WithMetrics records page and record counts into m.
func WithMetrics(m *Metrics) Option {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Fetcher using client for HTTP and vocab for cleaning and
// deduplication.
func New(client *Client, vocab *model.Vocabulary, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: client,
		vocab:  vocab,
		latest: true,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchRecords collects up to target unique records of modality.
// It returns an empty slice, not an error, when the server has no matching
// records.
func (f *Fetcher) FetchRecords(ctx context.Context, modality model.Modality, target int, criteria query.Criteria) ([]model.Record, error) {
	res, err := f.Fetch(ctx, Request{Modality: modality, Target: target, Criteria: criteria})
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// Fetch runs one fetch session.
//
// Pages are requested strictly in order starting at page 1. Each page is
// flattened, cleaned and deduplicated against a checksum set owned by this
// session. The session stops once Target records are collected, truncating
// the last page, or when a page contains no records at all. A page whose
// records are all duplicates does not end the session.
//
// Any error, including a non-2xx response or cancellation of ctx, aborts
// the session and discards the records collected so far.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (*Result, error) {
	if req.Target < 1 {
		return nil, fmt.Errorf("%w: number of records to fetch must be at least 1, got %d",
			model.ErrInvalidArgument, req.Target)
	}
	if !req.Modality.Valid() {
		return nil, fmt.Errorf("%w: modality %q is not supported", model.ErrInvalidArgument, req.Modality)
	}

	logger := f.logger.With("modality", req.Modality)
	seen := model.NewChecksumSet()
	p := pipeline.NewRecordPipeline(f.vocab, seen, logger)
	builder := f.client.Builder()
	logger.Debug("fetch session started", "target", req.Target, "steps", p.StepNames())

	res := &Result{
		Modality:  req.Modality,
		Records:   make([]model.Record, 0),
		Criteria:  req.Criteria,
		StartedAt: time.Now(),
	}

	for pageNum := 1; ; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fetch of %s cancelled at page %d: %w", req.Modality, pageNum, err)
		}

		url, err := builder.Build(req.Modality, pageNum, builder.PageSize(), f.latest, req.Criteria)
		if err != nil {
			return nil, err
		}
		if pageNum == 1 {
			res.FirstQuery = url
		}

		env, err := f.client.GetPage(ctx, req.Modality.String(), url)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s page %d: %w", req.Modality, pageNum, err)
		}
		res.Pages = pageNum

		if len(env.Items) == 0 {
			logger.Debug("source exhausted", "page", pageNum)
			break
		}

		page := pipeline.NewPage(req.Modality, pageNum, env.Items)
		if err := p.Execute(ctx, page); err != nil {
			return nil, fmt.Errorf("failed to process %s page %d: %w", req.Modality, pageNum, err)
		}
		f.metrics.observePage(req.Modality, page.Stats)
		res.Stats.Add(page.Stats)
		res.Records = append(res.Records, page.Records...)

		logger.Info("fetched page",
			"page", pageNum,
			"received", page.RawCount(),
			"kept", page.Stats.Kept,
			"total", len(res.Records),
		)

		if len(res.Records) >= req.Target {
			res.Records = res.Records[:req.Target]
			break
		}
	}

	res.FinishedAt = time.Now()
	f.metrics.observeSession(req.Modality, res.FinishedAt)
	return res, nil
}
