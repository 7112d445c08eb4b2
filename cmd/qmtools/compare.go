package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hickst/qmtools/internal/normalize"
	"github.com/hickst/qmtools/internal/report"
	"github.com/hickst/qmtools/internal/tsv"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <fetched-file> <group-file>",
		Short: "Compare fetched IQM records with an MRIQC group file",
		Long: `Compare merges a fetched record file with an MRIQC group file and summarizes
the distribution of every image quality metric they share.

Metadata columns (bids_meta, provenance, rating and server fields) are
dropped, the fetched _id column becomes bids_name, and every row is tagged
with an orig column of "fetch" or "group". The merged table and a Markdown
report with per-metric statistics are written to the reports directory:

  <reports-dir>/<fetched>_vs_<group>.tsv
  <reports-dir>/<fetched>_vs_<group>.md

Examples:
  qmtools compare fetched/bold_20260301_120000-000000.tsv group_bold.tsv
  qmtools compare -f json fetched/T1w.tsv group_T1w.tsv`,
		Args: cobra.ExactArgs(2),
		RunE: runCompareCmd,
	}

	cmd.Flags().StringP("reports-dir", "r", "",
		"Directory for the merged table and report (default: reports_dir from the configuration)")
	addFormatFlag(cmd, report.FormatText)

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg)

	reportsDir, err := cmd.Flags().GetString("reports-dir")
	if err != nil {
		return err
	}
	if reportsDir == "" {
		reportsDir = cfg.ReportsDir
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	fetchFile, groupFile := args[0], args[1]
	fetched, err := tsv.ReadFile(fetchFile)
	if err != nil {
		return withExit(exitInputFile, err)
	}
	group, err := tsv.ReadFile(groupFile)
	if err != nil {
		return withExit(exitInputFile, err)
	}

	merged := normalize.Merge(fetched, group)
	r := &report.CompareReport{
		FetchFile:   fetchFile,
		GroupFile:   groupFile,
		FetchRows:   len(fetched.Rows),
		GroupRows:   len(group.Rows),
		Metrics:     normalize.CompareMetrics(merged),
		GeneratedAt: time.Now(),
	}
	logger.Debug("merged inputs", "rows", len(merged.Rows), "metrics", len(r.Metrics))

	if err := ensureDir(reportsDir, exitReportsDir); err != nil {
		return err
	}
	base := filepath.Join(reportsDir, stem(fetchFile)+"_vs_"+stem(groupFile))
	if err := tsv.WriteFile(base+".tsv", merged.Header, merged.Rows); err != nil {
		return withExit(exitReportsDir, err)
	}
	r.OutputFile = base + ".tsv"

	mdPath := base + ".md"
	if err := writeReportFile(mdPath, report.FormatMarkdown, func(w report.Writer) error {
		_, err := w.WriteCompare(r)
		return err
	}); err != nil {
		return withExit(exitReportsDir, fmt.Errorf("failed to write %s: %w", mdPath, err))
	}

	return renderTo(cmd.OutOrStdout(), format, func(w report.Writer) error {
		_, err := w.WriteCompare(r)
		return err
	})
}

// stem returns the file name of path without its extension.
func stem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
