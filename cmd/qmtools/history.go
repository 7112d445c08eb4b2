package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hickst/qmtools/internal/config"
	"github.com/hickst/qmtools/internal/database"
	"github.com/hickst/qmtools/internal/model"
	"github.com/hickst/qmtools/internal/report"
	"github.com/hickst/qmtools/internal/tsv"
)

// defaultHistoryLimit caps the number of sessions listed.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and export recorded fetch sessions",
		Long: `History lists the fetch sessions recorded in the fetch history database.

Every fetch stores its query, its deduplication counts and the fetched
records. A stored session can be written out again as a record file, or
deleted.

Examples:
  # List the 20 most recent sessions
  qmtools history

  # List BOLD sessions only
  qmtools history -m bold --limit 50

  # Rewrite a stored session as a TSV file
  qmtools history --export 0b7e6c4e-9a1c-4d8e-9a61-2f1f6c7d8e90 -o bold.tsv

  # Count the stored T1w sessions containing a record
  qmtools history -m T1w --checksum d41d8cd98f00b204e9800998ecf8427e`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("modality", "m", "",
		"Only list sessions of this modality")
	cmd.Flags().IntP("limit", "l", defaultHistoryLimit,
		"Maximum number of sessions to list (0 for all)")
	cmd.Flags().String("export", "",
		"Write the records of the session with this ID as a TSV file")
	cmd.Flags().StringP("output", "o", "",
		"Output path for --export (default: <fetched-dir>/<modality>_<timestamp>.tsv)")
	cmd.Flags().String("delete", "",
		"Delete the session with this ID")
	cmd.Flags().String("checksum", "",
		"Count the sessions of --modality containing a record with this checksum")
	addDBDirFlag(cmd)
	addFormatFlag(cmd, report.FormatText)

	return cmd
}

// addDBDirFlag registers the --db-dir flag shared by fetch and history.
func addDBDirFlag(cmd *cobra.Command) {
	cmd.Flags().String("db-dir", "",
		"Directory of the fetch history database (default: XDG data directory)")
}

// dbDir resolves the --db-dir flag against the configuration.
func dbDir(cmd *cobra.Command, cfg *config.Config) (string, error) {
	dir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = cfg.DBDir
	}
	return dir, nil
}

// historyOptions holds the parsed history flags.
type historyOptions struct {
	modality model.Modality
	limit    int
	export   string
	output   string
	delete   string
	checksum string
	format   report.Format
}

// parseHistoryOptions reads the history flags.
func parseHistoryOptions(cmd *cobra.Command) (*historyOptions, error) {
	flags := cmd.Flags()
	opts := &historyOptions{}

	name, err := flags.GetString("modality")
	if err != nil {
		return nil, err
	}
	if name != "" {
		if opts.modality, err = model.ParseModality(name); err != nil {
			return nil, err
		}
	}
	if opts.limit, err = flags.GetInt("limit"); err != nil {
		return nil, err
	}
	if opts.export, err = flags.GetString("export"); err != nil {
		return nil, err
	}
	if opts.output, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if opts.delete, err = flags.GetString("delete"); err != nil {
		return nil, err
	}
	if opts.checksum, err = flags.GetString("checksum"); err != nil {
		return nil, err
	}
	if opts.checksum != "" && opts.modality == "" {
		return nil, fmt.Errorf("%w: --checksum requires --modality", model.ErrInvalidArgument)
	}
	if opts.format, err = outputFormat(cmd); err != nil {
		return nil, err
	}
	return opts, nil
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogger(cmd, cfg)

	opts, err := parseHistoryOptions(cmd)
	if err != nil {
		return err
	}
	dir, err := dbDir(cmd, cfg)
	if err != nil {
		return err
	}

	dbOpts := database.DefaultOptions()
	dbOpts.CreateIfNotExists = false
	db, err := database.Open(dir, dbOpts)
	if errors.Is(err, model.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "No fetch history recorded yet.")
		return nil
	}
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	switch {
	case opts.export != "":
		return exportSession(ctx, cmd, cfg, db, opts.export, opts.output)

	case opts.delete != "":
		if err := db.DeleteSession(ctx, opts.delete); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted session %s\n", opts.delete)
		return nil

	case opts.checksum != "":
		n, err := db.CountChecksum(ctx, opts.modality, opts.checksum)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s appears in %d %s session(s)\n", opts.checksum, n, opts.modality)
		return nil
	}

	sessions, err := db.ListSessions(ctx, opts.modality, opts.limit)
	if err != nil {
		return err
	}
	return renderTo(out, opts.format, func(w report.Writer) error {
		_, err := w.WriteHistory(&report.HistoryReport{DBPath: db.Path(), Sessions: sessions})
		return err
	})
}

// exportSession rewrites the records of a stored session as a record file.
func exportSession(ctx context.Context, cmd *cobra.Command, cfg *config.Config, db *database.FetchDB, id, output string) error {
	sess, err := db.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("%w: no fetch session with ID %s", model.ErrNotFound, id)
	}
	records, err := db.GetSessionRecords(ctx, id)
	if err != nil {
		return err
	}

	if output == "" {
		if err := ensureDir(cfg.FetchedDir, exitFetchedDir); err != nil {
			return err
		}
		output = filepath.Join(cfg.FetchedDir, tsv.OutputFilename(sess.Modality, sess.FinishedAt))
	}
	if err := tsv.WriteFile(output, vocabulary(cfg).FieldsFor(sess.Modality), records); err != nil {
		return withExit(exitOutputFile, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d %s records to %s\n", len(records), sess.Modality, output)
	return nil
}
