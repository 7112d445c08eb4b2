package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hickst/qmtools/internal/config"
	"github.com/hickst/qmtools/internal/database"
	"github.com/hickst/qmtools/internal/fetcher"
	"github.com/hickst/qmtools/internal/model"
	"github.com/hickst/qmtools/internal/query"
	"github.com/hickst/qmtools/internal/report"
	"github.com/hickst/qmtools/internal/tsv"
)

// fetchOptions holds the parsed fetch flags.
type fetchOptions struct {
	modalities  []model.Modality
	numRecs     int
	queryFile   string
	output      string
	all         bool
	noSave      bool
	format      report.Format
	metricsFile string
	concurrency int
	dbDir       string
}

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch IQM records from the MRIQC Web API",
		Long: `Fetch queries the MRIQC Web API for image quality metric records and saves
them as a tab-separated file.

Records are requested page by page until the requested number of unique
records is collected or the server has no more. Records are deduplicated by
their provenance.md5sum checksum; records without a checksum are dropped.

A query file restricts the records returned. Each line holds an IQM keyword,
a space, and a comparison:

  snr_total >5
  tsnr >= 40
  bids_meta.TaskName ==rest

Several modalities can be fetched in one run; their sessions run in parallel.

Examples:
  # Fetch the 1000 most recent BOLD records
  qmtools fetch -m bold

  # Fetch 250 T1w records matching a query, in server order
  qmtools fetch -m T1w -n 250 -q t1_query.txt --all

  # Fetch all modalities and print a Markdown summary
  qmtools fetch -m bold -m T1w -m T2w --summary`,
		Args: cobra.NoArgs,
		RunE: runFetchCmd,
	}

	cmd.Flags().StringSliceP("modality", "m", nil,
		"Modality to fetch: bold, T1w or T2w (repeatable)")
	cmd.Flags().IntP("num-recs", "n", config.DefaultRecordCount,
		"Number of unique records to fetch per modality (overrides record_count)")
	cmd.Flags().StringP("query", "q", "",
		"Query file restricting the records fetched")
	cmd.Flags().StringP("output", "o", "",
		"Output file path (single modality only; default: <fetched-dir>/<modality>_<timestamp>.tsv)")
	cmd.Flags().Bool("all", false,
		"Do not request the most recent records first")
	cmd.Flags().Bool("no-save", false,
		"Do not record the session in the fetch history database")
	cmd.Flags().Bool("summary", false,
		"Write a Markdown summary to stdout (same as --format markdown)")
	cmd.Flags().String("metrics-file", "",
		"Write Prometheus fetch metrics to this file")
	cmd.Flags().IntP("concurrency", "j", config.DefaultConcurrency,
		"Number of modalities fetched in parallel")
	addDBDirFlag(cmd)
	addFormatFlag(cmd, report.FormatText)
	_ = cmd.MarkFlagRequired("modality") //nolint:errcheck // flag is defined above

	return cmd
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := parseFetchOptions(cmd, cfg)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	return runFetch(ctx, cmd, cfg, opts, logger)
}

// parseFetchOptions reads and checks the fetch flags.
func parseFetchOptions(cmd *cobra.Command, cfg *config.Config) (*fetchOptions, error) {
	flags := cmd.Flags()
	opts := &fetchOptions{}

	names, err := flags.GetStringSlice("modality")
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		m, err := model.ParseModality(name)
		if err != nil {
			return nil, err
		}
		opts.modalities = append(opts.modalities, m)
	}
	if len(opts.modalities) == 0 {
		return nil, fmt.Errorf("%w: at least one modality is required", model.ErrInvalidArgument)
	}

	if opts.numRecs, err = flags.GetInt("num-recs"); err != nil {
		return nil, err
	}
	if !flags.Changed("num-recs") {
		opts.numRecs = cfg.RecordCount
	}
	if opts.numRecs < 1 {
		return nil, withExit(exitNumRecs,
			fmt.Errorf("number of records to fetch must be at least 1, got %d", opts.numRecs))
	}

	if opts.queryFile, err = flags.GetString("query"); err != nil {
		return nil, err
	}
	if opts.output, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if opts.output != "" && len(opts.modalities) > 1 {
		return nil, withExit(exitOutputFile,
			errors.New("--output can only be used when fetching a single modality"))
	}
	if opts.all, err = flags.GetBool("all"); err != nil {
		return nil, err
	}
	if opts.noSave, err = flags.GetBool("no-save"); err != nil {
		return nil, err
	}

	if opts.format, err = outputFormat(cmd); err != nil {
		return nil, err
	}
	summary, err := flags.GetBool("summary")
	if err != nil {
		return nil, err
	}
	if summary {
		opts.format = report.FormatMarkdown
	}

	if opts.metricsFile, err = flags.GetString("metrics-file"); err != nil {
		return nil, err
	}
	if opts.metricsFile == "" {
		opts.metricsFile = cfg.MetricsFile
	}

	if opts.concurrency, err = flags.GetInt("concurrency"); err != nil {
		return nil, err
	}
	if !flags.Changed("concurrency") {
		opts.concurrency = cfg.Concurrency
	}

	if opts.dbDir, err = dbDir(cmd, cfg); err != nil {
		return nil, err
	}
	return opts, nil
}

// runFetch fetches every requested modality and writes the record files,
// the history entries and the summary.
func runFetch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts *fetchOptions, logger *slog.Logger) error {
	vocab := vocabulary(cfg)

	reqs := make([]fetcher.Request, 0, len(opts.modalities))
	for _, m := range opts.modalities {
		var criteria query.Criteria
		if opts.queryFile != "" {
			c, err := query.ParseFile(opts.queryFile, vocab, m)
			if err != nil {
				return withExit(exitQueryFile, err)
			}
			criteria = c
		}
		reqs = append(reqs, fetcher.Request{Modality: m, Target: opts.numRecs, Criteria: criteria})
	}

	if opts.output == "" {
		if err := ensureDir(cfg.FetchedDir, exitFetchedDir); err != nil {
			return err
		}
	}

	metrics := fetcher.NewMetrics()
	client, err := newClient(cfg, metrics, logger)
	if err != nil {
		return err
	}
	f := fetcher.New(client, vocab,
		fetcher.WithLatest(cfg.Latest && !opts.all),
		fetcher.WithMetrics(metrics),
		fetcher.WithLogger(logger),
	)
	bf := fetcher.NewBatchFetcher(f,
		fetcher.WithConcurrency(opts.concurrency),
		fetcher.WithBatchLogger(logger),
	)

	results, fetchErr := bf.FetchAll(ctx, reqs)

	var db *database.FetchDB
	if cfg.SaveToDB && !opts.noSave {
		db, err = database.Open(opts.dbDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("fetch history disabled", "error", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	summary := &report.FetchSummary{
		Server:      cfg.ServerURL,
		GeneratedAt: time.Now(),
	}
	for _, res := range results {
		sess, err := finishSession(ctx, cfg, opts, vocab, db, res, logger)
		if err != nil {
			return err
		}
		summary.Sessions = append(summary.Sessions, sess)
	}

	if err := renderTo(cmd.OutOrStdout(), opts.format, func(w report.Writer) error {
		_, err := w.WriteFetch(summary)
		return err
	}); err != nil {
		return err
	}

	if opts.metricsFile != "" {
		if err := metrics.WriteTextfile(opts.metricsFile); err != nil {
			logger.Warn("failed to write metrics file", "path", opts.metricsFile, "error", err)
		}
	}

	if fetchErr != nil {
		return fmt.Errorf("fetch failed: %w", fetchErr)
	}
	return nil
}

// finishSession writes the records of one session and records it in the
// history database when db is not nil.
func finishSession(ctx context.Context, cfg *config.Config, opts *fetchOptions, vocab *model.Vocabulary,
	db *database.FetchDB, res *fetcher.Result, logger *slog.Logger,
) (report.FetchSession, error) {
	sess := report.FetchSession{
		Modality: res.Modality,
		Target:   opts.numRecs,
		Criteria: res.Criteria,
	}
	if res.Err != nil {
		sess.Error = res.Err.Error()
		return sess, nil
	}

	sess.Records = len(res.Records)
	sess.Pages = res.Pages
	sess.Stats = res.Stats
	sess.QueryURL = res.FirstQuery
	sess.StartedAt = res.StartedAt
	sess.FinishedAt = res.FinishedAt

	path := opts.output
	if path == "" {
		path = filepath.Join(cfg.FetchedDir, tsv.OutputFilename(res.Modality, res.FinishedAt))
	}
	if err := tsv.WriteFile(path, vocab.FieldsFor(res.Modality), res.Records); err != nil {
		return sess, withExit(exitOutputFile, err)
	}
	sess.OutputFile = path
	logger.Info("records saved", "modality", res.Modality, "records", sess.Records, "path", path)

	if db == nil {
		return sess, nil
	}
	id, err := db.SaveSession(ctx, &database.Session{
		Modality:        res.Modality,
		StartedAt:       res.StartedAt,
		FinishedAt:      res.FinishedAt,
		Pages:           res.Pages,
		Duplicates:      res.Stats.Duplicates,
		MissingChecksum: res.Stats.Missing,
		QueryURL:        res.FirstQuery,
		Criteria:        res.Criteria,
		QueryDigest:     database.QueryDigest(res.Modality, res.Criteria.Where()),
	}, res.Records)
	if err != nil {
		logger.Warn("failed to record fetch session", "modality", res.Modality, "error", err)
		return sess, nil
	}
	sess.ID = id
	return sess, nil
}
