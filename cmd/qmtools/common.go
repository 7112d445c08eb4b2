package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hickst/qmtools/internal/config"
	"github.com/hickst/qmtools/internal/fetcher"
	qlog "github.com/hickst/qmtools/internal/log"
	"github.com/hickst/qmtools/internal/model"
	"github.com/hickst/qmtools/internal/query"
	"github.com/hickst/qmtools/internal/report"
)

// loadConfig builds the configuration from defaults, the config file and
// the global flags, and validates it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	server, err := flags.GetString("server")
	if err != nil {
		return nil, err
	}
	if server != "" {
		cfg.ServerURL = server
	}

	cfg.Verbose, err = flags.GetBool("verbose")
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// setupLogger creates the redacting logger for cfg and makes it the default.
// With --log-json the messages are written as JSON.
func setupLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	logger := qlog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	if asJSON, err := cmd.Flags().GetBool("log-json"); err == nil && asJSON {
		logger = qlog.NewJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	}
	slog.SetDefault(logger)
	if cfg.ConfigFilePath != "" {
		logger.Debug("configuration loaded", "path", cfg.ConfigFilePath)
	}
	return logger
}

// vocabulary returns the MRIQC vocabulary with the configured field removals.
func vocabulary(cfg *config.Config) *model.Vocabulary {
	vocab := model.DefaultVocabulary()
	if len(cfg.FieldsToRemove) > 0 {
		vocab.FieldsToRemove = slices.Clone(cfg.FieldsToRemove)
	}
	return vocab
}

// newClient creates an MRIQC API client from cfg.
func newClient(cfg *config.Config, metrics *fetcher.Metrics, logger *slog.Logger) (*fetcher.Client, error) {
	return fetcher.NewClient(
		query.NewBuilder(cfg.ServerURL, cfg.PageSize),
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithHeaders(cfg.Headers),
		fetcher.WithClientMetrics(metrics),
		fetcher.WithClientLogger(logger),
	)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// outputFormat resolves the --format flag.
func outputFormat(cmd *cobra.Command) (report.Format, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", err
	}
	return report.Format(format), nil
}

// addFormatFlag registers the --format flag shared by reporting commands.
func addFormatFlag(cmd *cobra.Command, def report.Format) {
	cmd.Flags().StringP("format", "f", string(def),
		"Summary format written to stdout (text, markdown, json)")
}

// ensureDir creates dir if it does not exist. Failures carry code.
func ensureDir(dir string, code int) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return withExit(code, fmt.Errorf("failed to create directory %s: %w", dir, err))
	}
	return nil
}

// writeReportFile renders a report into path using format.
func writeReportFile(path string, format report.Format, render func(report.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	f, err := os.Create(path) //nolint:gosec // path is built from user-chosen directories
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return renderTo(f, format, render)
}

// renderTo renders a report to w using format.
func renderTo(w io.Writer, format report.Format, render func(report.Writer) error) error {
	writer, err := report.NewWriter(format, w)
	if err != nil {
		return err
	}
	return render(writer)
}
