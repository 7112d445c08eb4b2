package pipeline

import (
	"context"
	"log/slog"
	"slices"

	"github.com/hickst/qmtools/internal/model"
)

// FlattenStep converts the page's raw records into flat records.
type FlattenStep struct{}

// NewFlattenStep creates a new flattening step.
func NewFlattenStep() *FlattenStep {
	return &FlattenStep{}
}

// Do implements Step.
func (s *FlattenStep) Do(_ context.Context, page *Page) error {
	page.Records = model.FlattenAll(page.Raw)
	return nil
}

// Name implements Step.
func (s *FlattenStep) Name() string {
	return "flatten"
}

// CleanStep strips unwanted fields from every record.
type CleanStep struct {
	fields []string
}

// NewCleanStep creates a step removing fields from each record.
func NewCleanStep(fields []string) *CleanStep {
	return &CleanStep{fields: slices.Clone(fields)}
}

// Do implements Step.
func (s *CleanStep) Do(_ context.Context, page *Page) error {
	model.CleanAll(page.Records, s.fields)
	return nil
}

// Name implements Step.
func (s *CleanStep) Name() string {
	return "clean"
}

// DedupStep drops records already seen in the session.
// The step holds the session's checksum set; create one step per session.
type DedupStep struct {
	seen   *model.ChecksumSet
	field  string
	logger *slog.Logger
}

// DedupStepOption configures a DedupStep.
type DedupStepOption func(*DedupStep)

// WithDedupLogger sets a custom logger for the dedup step.
func WithDedupLogger(logger *slog.Logger) DedupStepOption {
	return func(s *DedupStep) {
		s.logger = logger
	}
}

// NewDedupStep creates a step deduplicating on field against seen.
func NewDedupStep(seen *model.ChecksumSet, field string, opts ...DedupStepOption) *DedupStep {
	s := &DedupStep{
		seen:   seen,
		field:  field,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Do implements Step.
func (s *DedupStep) Do(_ context.Context, page *Page) error {
	kept, stats := model.Deduplicate(page.Records, s.seen, s.field)
	page.Records = kept
	page.Stats = stats

	if stats.Missing > 0 {
		s.logger.Warn("dropped records without checksum",
			"modality", page.Modality,
			"page", page.Number,
			"field", s.field,
			"count", stats.Missing,
		)
	}
	if stats.Duplicates > 0 {
		s.logger.Debug("dropped duplicate records",
			"modality", page.Modality,
			"page", page.Number,
			"count", stats.Duplicates,
		)
	}
	return nil
}

// Name implements Step.
func (s *DedupStep) Name() string {
	return "dedup"
}

// NewRecordPipeline returns the standard flatten, clean, dedup pipeline for
// one fetch session.
func NewRecordPipeline(vocab *model.Vocabulary, seen *model.ChecksumSet, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := New(WithLogger(logger))
	p.AddSteps(
		NewFlattenStep(),
		NewCleanStep(vocab.FieldsToRemove),
		NewDedupStep(seen, vocab.ChecksumField, WithDedupLogger(logger)),
	)
	return p
}
