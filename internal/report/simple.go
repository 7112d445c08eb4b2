package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteFetch implements Writer.
func (w *SimpleWriter) WriteFetch(s *FetchSummary) (int, error) {
	var sb strings.Builder

	for _, sess := range s.Sessions {
		if sess.Error != "" {
			fmt.Fprintf(&sb, "%-5s  FAILED: %s\n", sess.Modality, sess.Error)
			continue
		}
		fmt.Fprintf(&sb, "%-5s  %d of %d records", sess.Modality, sess.Records, sess.Target)
		if sess.OutputFile != "" {
			fmt.Fprintf(&sb, " -> %s", sess.OutputFile)
		}
		sb.WriteString("\n")
		if sess.Exhausted() {
			sb.WriteString("       no more matching records on the server\n")
		}
		if w.verbose {
			fmt.Fprintf(&sb, "       pages: %d, duplicates: %d, missing checksum: %d\n",
				sess.Pages, sess.Stats.Duplicates, sess.Stats.Missing)
			if sess.ID != "" {
				fmt.Fprintf(&sb, "       session: %s\n", sess.ID)
			}
		}
	}

	return w.emit(sb.String())
}

// WriteTraffic implements Writer.
func (w *SimpleWriter) WriteTraffic(r *TrafficReport) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Traffic-light tables for %s (%d images from %s)\n", r.Modality, r.Images, r.InputFile)
	for _, t := range r.Tables {
		fmt.Fprintf(&sb, "  %-14s %2d columns", t.Name, len(t.Columns))
		for _, f := range []string{t.TSVFile, t.HTMLFile} {
			if f != "" {
				fmt.Fprintf(&sb, "  %s", f)
			}
		}
		sb.WriteString("\n")
	}
	if len(r.MissingColumns) > 0 {
		fmt.Fprintf(&sb, "  missing columns: %s\n", strings.Join(r.MissingColumns, ", "))
	}

	return w.emit(sb.String())
}

// WriteCompare implements Writer.
func (w *SimpleWriter) WriteCompare(r *CompareReport) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Comparing %s (%d rows) with %s (%d rows)\n",
		r.FetchFile, r.FetchRows, r.GroupFile, r.GroupRows)
	fmt.Fprintf(&sb, "%-18s %12s %12s %12s %12s\n", "IQM", "fetch mean", "fetch sd", "group mean", "group sd")
	for _, m := range r.Metrics {
		fmt.Fprintf(&sb, "%-18s %12s %12s %12s %12s\n",
			truncateString(m.Name, 18),
			formatFloat(m.Fetch.Mean, 4), formatFloat(m.Fetch.SD, 4),
			formatFloat(m.Group.Mean, 4), formatFloat(m.Group.SD, 4))
	}
	if r.OutputFile != "" {
		fmt.Fprintf(&sb, "merged table: %s\n", r.OutputFile)
	}

	return w.emit(sb.String())
}

// WriteHistory implements Writer.
func (w *SimpleWriter) WriteHistory(h *HistoryReport) (int, error) {
	var sb strings.Builder

	if len(h.Sessions) == 0 {
		sb.WriteString("No fetch sessions recorded.\n")
		return w.emit(sb.String())
	}

	fmt.Fprintf(&sb, "%-36s  %-5s  %-19s  %7s  %s\n", "ID", "MOD", "STARTED", "RECORDS", "QUERY")
	for _, s := range h.Sessions {
		digest := s.QueryDigest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		fmt.Fprintf(&sb, "%-36s  %-5s  %-19s  %7d  %s\n",
			s.ID, s.Modality, s.StartedAt.Local().Format(time.DateTime), s.RecordCount, digest)
	}

	return w.emit(sb.String())
}
