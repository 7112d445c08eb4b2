package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hickst/qmtools/internal/model"
	"github.com/hickst/qmtools/internal/report"
	"github.com/hickst/qmtools/internal/tsv"
)

// NewTrafficCmd creates the traffic command.
func NewTrafficCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traffic <group-file>",
		Short: "Build traffic-light reports from an MRIQC group file",
		Long: `Traffic z-score normalizes the image quality metrics of an MRIQC group file
and writes colour-coded traffic-light tables.

The metrics of the modality are split into those where higher values are
better (positive-good) and those where higher values are worse
(positive-bad). Each set is written as a TSV file of z-scores and as an HTML
table whose cells are coloured from pink (worse) to green (better):

  <reports-dir>/pos_good_<modality>.tsv  pos_good_<modality>.html
  <reports-dir>/pos_bad_<modality>.tsv   pos_bad_<modality>.html
  <reports-dir>/traffic_<modality>.md

Examples:
  qmtools traffic -m bold group_bold.tsv
  qmtools traffic -m T1w -r out/reports group_T1w.tsv`,
		Args: cobra.ExactArgs(1),
		RunE: runTrafficCmd,
	}

	cmd.Flags().StringP("modality", "m", "",
		"Modality of the group file: bold, T1w or T2w")
	cmd.Flags().StringP("reports-dir", "r", "",
		"Directory for the generated reports (default: reports_dir from the configuration)")
	addFormatFlag(cmd, report.FormatText)
	_ = cmd.MarkFlagRequired("modality") //nolint:errcheck // flag is defined above

	return cmd
}

// runTrafficCmd executes the traffic command.
func runTrafficCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg)

	name, err := cmd.Flags().GetString("modality")
	if err != nil {
		return err
	}
	modality, err := model.ParseModality(name)
	if err != nil {
		return err
	}
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

	input := args[0]
	table, err := tsv.ReadFile(input)
	if err != nil {
		return withExit(exitInputFile, err)
	}

	r, err := report.NewTrafficReport(vocabulary(cfg), modality, input, table)
	if err != nil {
		return withExit(exitInputFile, err)
	}
	if len(r.MissingColumns) > 0 {
		logger.Warn("group file lacks some metrics", "modality", modality, "missing", r.MissingColumns)
	}

	if err := ensureDir(reportsDir, exitReportsDir); err != nil {
		return err
	}
	if err := r.WriteFiles(reportsDir); err != nil {
		return withExit(exitReportsDir, err)
	}

	mdPath := filepath.Join(reportsDir, fmt.Sprintf("traffic_%s.md", modality))
	if err := writeReportFile(mdPath, report.FormatMarkdown, func(w report.Writer) error {
		_, err := w.WriteTraffic(r)
		return err
	}); err != nil {
		return withExit(exitReportsDir, fmt.Errorf("failed to write %s: %w", mdPath, err))
	}

	return renderTo(cmd.OutOrStdout(), format, func(w report.Writer) error {
		_, err := w.WriteTraffic(r)
		return err
	})
}
